package controller

import (
	"community-resources-be/internal/pkg/serverutils"
	"community-resources-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IResourceController interface {
	RegisterRoutes(r fiber.Router)
	ListCategories(ctx *fiber.Ctx) error
	GetFilterOptions(ctx *fiber.Ctx) error
	GetRecord(ctx *fiber.Ctx) error
}

type resourceController struct {
	service service.IResourceService
}

func NewResourceController(service service.IResourceService) IResourceController {
	return &resourceController{service: service}
}

func (c *resourceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/resource/v1")
	h.Get("categories", c.ListCategories)
	h.Get(":category/filters", c.GetFilterOptions)
	h.Get(":category/records/:id", c.GetRecord)
}

func (c *resourceController) ListCategories(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get categories", c.service.ListCategories(ctx.Context())))
}

func (c *resourceController) GetFilterOptions(ctx *fiber.Ctx) error {
	res, err := c.service.GetFilterOptions(ctx.Context(), ctx.Params("category"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get filter options", res))
}

func (c *resourceController) GetRecord(ctx *fiber.Ctx) error {
	res, err := c.service.GetRecord(ctx.Context(), ctx.Params("category"), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get record", res))
}
