package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TrvKhanh/rag-mobile/internal/dto"
	"github.com/TrvKhanh/rag-mobile/internal/pkg/serverutils"
	"github.com/TrvKhanh/rag-mobile/pkg/tools"
)

type IStoreController interface {
	RegisterRoutes(r fiber.Router)
	FindStores(ctx *fiber.Ctx) error
}

type storeController struct {
	registry *tools.Registry
}

func NewStoreController(registry *tools.Registry) IStoreController {
	return &storeController{registry: registry}
}

func (c *storeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/stores")
	h.Get("/", c.FindStores)
}

func (c *storeController) FindStores(ctx *fiber.Ctx) error {
	city := ctx.Query("city", "")
	if city == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "city parameter is required"))
	}

	locator, err := c.registry.Get(tools.StoreLocatorName)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	result, err := locator.Run(ctx.UserContext(), map[string]any{"city": city})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success find stores", dto.StoreLocatorResponse{
		Result: result,
	}))
}
