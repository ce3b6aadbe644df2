package usecase

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"swiftlogix/internal/domain/chatbot"
	"swiftlogix/internal/domain/model"
	repo "swiftlogix/internal/repository"

	"go.uber.org/zap"
)

const (
	WelcomeMessageID = "welcome"
	maxChatMessage   = 2000
)

var chatSessionPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

type ChatUsecase struct {
	messages  repo.ChatMessageRepository
	responder *chatbot.Responder
	ids       IDGenerator
	clock     Clock
	logger    *zap.Logger
}

func NewChatUsecase(messages repo.ChatMessageRepository, responder *chatbot.Responder, ids IDGenerator, clock Clock, logger *zap.Logger) *ChatUsecase {
	return &ChatUsecase{messages: messages, responder: responder, ids: ids, clock: clock, logger: logger}
}

// 1往復分
type ChatExchange struct {
	UserMessage model.ChatMessage `json:"user_message"`
	Reply       model.ChatMessage `json:"reply"`
}

// cookieの値がUUIDならそのまま使う。違えば新しく発行（issued=true）
func (u *ChatUsecase) ResolveSessionID(raw string) (id string, issued bool) {
	raw = strings.TrimSpace(raw)
	if chatSessionPattern.MatchString(raw) {
		return raw, false
	}
	return u.ids.NewID(), true
}

// 会話履歴（古い順）。空か読めないときはウェルカムメッセージだけ
func (u *ChatUsecase) History(ctx context.Context, sessionID string) []model.ChatMessage {
	msgs, err := u.messages.ListBySessionID(ctx, sessionID)
	if err != nil {
		u.logger.Warn("load chat history failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	if err != nil || len(msgs) == 0 {
		return []model.ChatMessage{u.welcome(sessionID)}
	}
	return msgs
}

// 返信はルール表で決まる。保存の失敗はログだけ
func (u *ChatUsecase) Send(ctx context.Context, sessionID, content string) (ChatExchange, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return ChatExchange{}, NewHTTPError(http.StatusBadRequest, "message is required")
	}
	if len(content) > maxChatMessage {
		return ChatExchange{}, NewHTTPError(http.StatusBadRequest, "message too long")
	}

	userMsg := u.persist(ctx, model.ChatMessage{
		ID:        u.ids.NewID(),
		SessionID: sessionID,
		Role:      model.ChatRoleUser,
		Content:   content,
		CreatedAt: u.clock.Now(),
	})
	reply := u.persist(ctx, model.ChatMessage{
		ID:        u.ids.NewID(),
		SessionID: sessionID,
		Role:      model.ChatRoleAssistant,
		Content:   u.responder.Reply(content),
		CreatedAt: u.clock.Now(),
	})

	return ChatExchange{UserMessage: userMsg, Reply: reply}, nil
}

func (u *ChatUsecase) QuickReplies() []string {
	return chatbot.QuickReplies()
}

func (u *ChatUsecase) persist(ctx context.Context, m model.ChatMessage) model.ChatMessage {
	saved, err := u.messages.Create(ctx, m)
	if err != nil {
		u.logger.Warn("persist chat message failed",
			zap.String("session_id", m.SessionID),
			zap.String("role", string(m.Role)),
			zap.Error(err),
		)
		return m
	}
	return saved
}

func (u *ChatUsecase) welcome(sessionID string) model.ChatMessage {
	return model.ChatMessage{
		ID:        WelcomeMessageID,
		SessionID: sessionID,
		Role:      model.ChatRoleAssistant,
		Content:   chatbot.WelcomeMessage,
		CreatedAt: u.clock.Now(),
	}
}
