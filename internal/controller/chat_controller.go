package controller

import (
	"bufio"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/TrvKhanh/rag-mobile/internal/dto"
	"github.com/TrvKhanh/rag-mobile/internal/pkg/logger"
	"github.com/TrvKhanh/rag-mobile/internal/pkg/serverutils"
	"github.com/TrvKhanh/rag-mobile/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
	logger  logger.ILogger
}

func NewChatController(svc service.IChatService, log logger.ILogger) IChatController {
	return &chatController{service: svc, logger: log}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/", c.SendChat)
	h.Get("/:thread_id/history", c.GetHistory)
}

// SendChat streams the reply: a thread_id control line, an optional
// info control line, then generated chunks.
func (c *chatController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	ctx.Set("Content-Type", "text/plain; charset=utf-8")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Transfer-Encoding", "chunked")

	svc := c.service
	log := c.logger

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// The fiber context is gone once this runs; the turn gets its
		// own deadline.
		streamCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		_, err := svc.Chat(streamCtx, req.ThreadId, req.Message, func(chunk string) error {
			if _, werr := w.WriteString(chunk); werr != nil {
				return werr
			}
			return w.Flush()
		})
		if err != nil {
			log.Error("chat", "Chat turn failed", map[string]interface{}{
				"error": err.Error(),
			})
			_, _ = w.WriteString("\nXin lỗi bạn, hệ thống đang quá tải. Bạn thử lại sau chút nhé.")
			_ = w.Flush()
		}
	}))

	return nil
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	threadID := ctx.Params("thread_id")
	if threadID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "thread_id is required"))
	}

	history := c.service.History(threadID)
	messages := make([]dto.ChatHistoryMessage, len(history))
	for i, m := range history {
		messages[i] = dto.ChatHistoryMessage{Id: m.ID, Role: m.Role, Content: m.Content}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", dto.GetChatHistoryResponse{
		ThreadId: threadID,
		Messages: messages,
	}))
}
