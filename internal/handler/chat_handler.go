package handler

import (
	"net/http"

	"swiftlogix/internal/domain/model"
	"swiftlogix/internal/usecase"

	"github.com/labstack/echo/v4"
)

const ChatCookie = "chat_session_id"

type ChatSendRequest struct {
	Content string `json:"content"`
}

type ChatHistoryResponse struct {
	SessionID string              `json:"session_id"`
	Messages  []model.ChatMessage `json:"messages"`
}

type QuickRepliesResponse struct {
	QuickReplies []string `json:"quick_replies"`
}

// /chat 右下のチャットウィジェット
type ChatHandler struct {
	uc           *usecase.ChatUsecase
	cookieSecure bool
}

func NewChatHandler(uc *usecase.ChatUsecase, cookieSecure bool) *ChatHandler {
	return &ChatHandler{uc: uc, cookieSecure: cookieSecure}
}

func (h *ChatHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/chat")
	g.GET("/messages", h.history)
	g.POST("/messages", h.send)
	g.GET("/quick-replies", h.quickReplies)
}

func (h *ChatHandler) history(c echo.Context) error {
	sid := visitorCookie(c, ChatCookie, h.cookieSecure, h.uc.ResolveSessionID)
	return c.JSON(http.StatusOK, ChatHistoryResponse{
		SessionID: sid,
		Messages:  h.uc.History(c.Request().Context(), sid),
	})
}

func (h *ChatHandler) send(c echo.Context) error {
	var req ChatSendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	sid := visitorCookie(c, ChatCookie, h.cookieSecure, h.uc.ResolveSessionID)
	out, err := h.uc.Send(c.Request().Context(), sid, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ChatHandler) quickReplies(c echo.Context) error {
	return c.JSON(http.StatusOK, QuickRepliesResponse{QuickReplies: h.uc.QuickReplies()})
}
