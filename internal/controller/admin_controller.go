package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TrvKhanh/rag-mobile/internal/dto"
	"github.com/TrvKhanh/rag-mobile/internal/pkg/serverutils"
	"github.com/TrvKhanh/rag-mobile/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Reindex(ctx *fiber.Ctx) error
}

type adminController struct {
	publisher service.IPublisherService
}

func NewAdminController(publisher service.IPublisherService) IAdminController {
	return &adminController{publisher: publisher}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Post("/reindex", c.Reindex)
}

// Reindex enqueues a catalog rebuild; the consumer picks it up
// asynchronously.
func (c *adminController) Reindex(ctx *fiber.Ctx) error {
	if err := c.publisher.RequestReindex(ctx.Context()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Reindex scheduled", dto.ReindexResponse{
		Status: "scheduled",
	}))
}
