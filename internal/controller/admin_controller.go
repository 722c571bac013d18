package controller

import (
	"strconv"

	"community-resources-be/internal/pkg/serverutils"
	"community-resources-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	RefreshCategory(ctx *fiber.Ctx) error
	ClearAllCaches(ctx *fiber.Ctx) error
	WarmAll(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetTranscript(ctx *fiber.Ctx) error
}

type adminController struct {
	service service.IAdminService
}

func NewAdminController(service service.IAdminService) IAdminController {
	return &adminController{service: service}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")

	// Datasets
	h.Post("/refresh/:category", c.RefreshCategory)
	h.Post("/clear", c.ClearAllCaches)
	h.Post("/warm", c.WarmAll)
	h.Get("/status", c.GetStatus)

	// Logs
	h.Get("/logs", c.GetLogs)
	h.Get("/transcript", c.GetTranscript)
}

func (c *adminController) RefreshCategory(ctx *fiber.Ctx) error {
	res, err := c.service.RefreshCategory(ctx.Context(), ctx.Params("category"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Category refreshed", res))
}

func (c *adminController) ClearAllCaches(ctx *fiber.Ctx) error {
	res, err := c.service.ClearAllCaches(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("All caches cleared", res))
}

func (c *adminController) WarmAll(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Datasets warmed", c.service.WarmAll(ctx.Context())))
}

func (c *adminController) GetStatus(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Dataset status", c.service.GetDatasetStatus(ctx.Context())))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	module := ctx.Query("module", "")

	logs, err := c.service.GetSystemLogs(ctx.Context(), page, limit, module)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetTranscript(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	entries, err := c.service.GetTranscript(ctx.Context(), page, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat transcript", entries))
}
