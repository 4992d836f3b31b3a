package controller

import (
	"bufio"
	"context"
	"errors"

	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/internal/dto"
	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/internal/pkg/serverutils"
	"ai-coursechat-be/internal/service"
	internalWS "ai-coursechat-be/internal/websocket"
	"ai-coursechat-be/pkg/rag/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	StreamChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	hub         *internalWS.Hub
	logger      logger.ILogger
}

func NewChatController(chatService service.IChatService, hub *internalWS.Hub, log logger.ILogger) IChatController {
	return &chatController{
		chatService: chatService,
		hub:         hub,
		logger:      log,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("stream", c.StreamChat)
	h.Get("session/:session_id/history", c.GetHistory)
	h.Delete("session/:session_id", c.DeleteSession)

	// WebSocket
	h.Get("ws", c.ServeWs)
}

// StreamChat answers a chat request as a plain-text chunked stream. All
// failures that can still produce a status code happen before the first
// chunk; once the body starts the stream just ends on error.
func (c *chatController) StreamChat(ctx *fiber.Ctx) error {
	var req dto.StreamChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	gen, err := c.chatService.PrepareStream(ctx.Context(), &req)
	if err != nil {
		return c.prepareFailure(ctx, err)
	}

	sessionID := req.SessionID
	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")

	// The writer runs after this handler returns, so it gets its own
	// context; a disconnected client surfaces as a flush error.
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer gen.Close()

		streamCtx, cancel := context.WithCancel(context.Background())
		defer cancel()

		result, err := gen.Stream(streamCtx, func(content string) error {
			if _, err := w.WriteString(content); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil {
			return
		}

		c.chatService.CompleteStream(streamCtx, sessionID, result)
	}))

	return nil
}

func (c *chatController) prepareFailure(ctx *fiber.Ctx, err error) error {
	var reformulationErr *pipeline.ReformulationError
	var retrievalErr *pipeline.RetrievalError
	if errors.As(err, &reformulationErr) || errors.As(err, &retrievalErr) {
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")

	res, err := c.chatService.GetHistory(ctx.Context(), sessionID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Session history", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	sessionID := ctx.Params("session_id")

	res, err := c.chatService.DeleteSession(ctx.Context(), sessionID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Session deleted", res))
}

// ServeWs upgrades the connection and binds it to the session from the
// query string.
func (c *chatController) ServeWs(ctx *fiber.Ctx) error {
	sessionID := ctx.Query("session_id", constant.DefaultSessionID)

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("CHAT", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(c.hub, conn, sessionID)
			c.logger.Info("CHAT", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
