package messages

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/chat"
	"max.ks1230/split-expenses-bot/internal/model/entry"
)

const somethingWrongMessage = "Sorry, something wrong happened..."

type messageSender interface {
	SendMessage(ctx context.Context, chatID int64, replyTo int, reply chat.Reply) error
}

type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message) ([]chat.Reply, error)
}

type config interface {
	AllowedChats() []int64
}

type Service struct {
	tgClient     messageSender
	handler      MessageHandler
	allowedChats map[int64]struct{}
}

// NewService wires the router. assistant may be nil when extraction is off.
func NewService(tgClient messageSender, drafts draftStorage, guide guide, assistant assistant, status statusReporter, config config) *Service {
	allowed := make(map[int64]struct{})
	for _, id := range config.AllowedChats() {
		allowed[id] = struct{}{}
	}
	return &Service{
		tgClient:     tgClient,
		handler:      newHandler(drafts, guide, assistant, status),
		allowedChats: allowed,
	}
}

type Message struct {
	Text       string
	ChatID     int64
	UserID     int64
	MessageID  int
	SenderName string
	UserName   string
}

func (m Message) Conversation() entry.ConversationID {
	return entry.ConversationID{ChatID: m.ChatID, UserID: m.UserID}
}

func (s *Service) HandleIncomingMessage(ctx context.Context, msg Message) error {
	if _, ok := s.allowedChats[msg.ChatID]; !ok {
		logger.Warn("message from a chat that is not allowed, rejected",
			zap.Int64("chat", msg.ChatID),
			zap.String("user", msg.UserName))
		return nil
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "handleMessage")
	defer span.Finish()

	start := time.Now()
	err := s.handle(ctx, msg)
	elapsed := time.Since(start)

	observeResponse(elapsed, err != nil)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

func (s *Service) handle(ctx context.Context, msg Message) error {
	logger.Info("handling message",
		zap.String("user", msg.UserName),
		zap.Int64("userID", msg.UserID),
		zap.Int64("chat", msg.ChatID),
		zap.String("text", msg.Text))

	res, err := s.handler.HandleMessage(ctx, msg)
	if err != nil {
		_ = s.tgClient.SendMessage(ctx, msg.ChatID, msg.MessageID, chat.Text(somethingWrongMessage))
		return err
	}
	for _, r := range res {
		if err = s.tgClient.SendMessage(ctx, msg.ChatID, msg.MessageID, r); err != nil {
			return errors.Wrap(err, "send reply")
		}
	}
	return nil
}
