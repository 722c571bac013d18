package controller

import (
	"community-resources-be/internal/dto"
	"community-resources-be/internal/pkg/serverutils"
	"community-resources-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
	SubmitQuery(ctx *fiber.Ctx) error
	TogglePin(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	SwitchCategory(ctx *fiber.Ctx) error
	SetFilters(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("session", c.CreateSession)
	h.Get("session/:id", c.GetSession)
	h.Post("session/:id/query", c.SubmitQuery)
	h.Post("session/:id/pin", c.TogglePin)
	h.Post("session/:id/reset", c.ResetSession)
	h.Put("session/:id/category", c.SwitchCategory)
	h.Put("session/:id/filters", c.SetFilters)
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateChatSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create chat session", res))
}

func (c *chatController) GetSession(ctx *fiber.Ctx) error {
	res, err := c.service.GetSession(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat session", res))
}

func (c *chatController) SubmitQuery(ctx *fiber.Ctx) error {
	var req dto.SubmitQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitQuery(ctx.Context(), ctx.Params("id"), req.Text)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit query", res))
}

func (c *chatController) TogglePin(ctx *fiber.Ctx) error {
	var req dto.TogglePinRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.TogglePin(ctx.Context(), ctx.Params("id"), req.RecordId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle pin", res))
}

func (c *chatController) ResetSession(ctx *fiber.Ctx) error {
	res, err := c.service.ResetSession(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset chat session", res))
}

func (c *chatController) SwitchCategory(ctx *fiber.Ctx) error {
	var req dto.SwitchCategoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SwitchCategory(ctx.Context(), ctx.Params("id"), req.Category)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success switch category", res))
}

func (c *chatController) SetFilters(ctx *fiber.Ctx) error {
	var req dto.SetFiltersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetExplicitFilters(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set filters", res))
}
