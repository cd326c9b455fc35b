package messages

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/chat"
	"max.ks1230/split-expenses-bot/internal/model/entry"
)

const (
	dontUnderstandMessage = "I don't understand you :("
	notImplementedMessage = "📊 Stats are not implemented yet"
	noAssistantMessage    = "🤖 The assistant is not configured. Use /add"
	aiUsageMessage        = "Usage: /ai <description>\nFor example: /ai pizza 23.50 paid by Alice"
)

var helloMessage = strings.Join([]string{
	"Hello! 👋",
	"/add or /new to add a transaction",
	"/ai <description> to add a transaction from a sentence",
	"/status to show debt status",
	"/stats NOT IMPLEMENTED",
}, "\n")

const (
	startCommand  = "/start"
	helpCommand   = "/help"
	newCommand    = "/new"
	addCommand    = "/add"
	aiCommand     = "/ai"
	statusCommand = "/status"
	statsCommand  = "/stats"
)

type draftStorage interface {
	GetDraft(ctx context.Context, id entry.ConversationID) (entry.Draft, bool, error)
	SaveDraft(ctx context.Context, id entry.ConversationID, draft entry.Draft) error
	DeleteDraft(ctx context.Context, id entry.ConversationID) error
}

type guide interface {
	Advance(ctx context.Context, draft entry.Draft, text string) (entry.Draft, []chat.Reply)
}

type assistant interface {
	Run(ctx context.Context, payerName, description string) chat.Reply
}

type statusReporter interface {
	Status(ctx context.Context) chat.Reply
}

type handler func(ctx context.Context, msg Message, arg string) ([]chat.Reply, error)

type handlerMap map[string]handler

// HandlerService routes a message either to a command or to the guided entry.
type HandlerService struct {
	handlersMap handlerMap
	drafts      draftStorage
	guide       guide
	assistant   assistant
	status      statusReporter
}

func newHandler(drafts draftStorage, guide guide, assistant assistant, status statusReporter) *HandlerService {
	res := &HandlerService{
		drafts:    drafts,
		guide:     guide,
		assistant: assistant,
		status:    status,
	}
	res.handlersMap = newMap(res)
	return res
}

func (s *HandlerService) HandleMessage(ctx context.Context, msg Message) ([]chat.Reply, error) {
	cmd, arg := parseCommand(msg.Text)

	handler, ok := s.handlersMap[cmd]
	if ok {
		return handler(ctx, msg, arg)
	}
	return replies(chat.Text(dontUnderstandMessage)), nil
}

func newMap(s *HandlerService) handlerMap {
	m := make(handlerMap)
	m[startCommand] = s.handleStart
	m[helpCommand] = s.handleStart
	m[newCommand] = s.handleNew
	m[addCommand] = s.handleNew
	m[aiCommand] = s.handleAI
	m[statusCommand] = s.handleStatus
	m[statsCommand] = s.handleStats

	m[""] = s.handleText

	return m
}

func (s *HandlerService) handleStart(_ context.Context, _ Message, _ string) ([]chat.Reply, error) {
	return replies(chat.Text(helloMessage)), nil
}

// handleNew drops whatever the conversation had and starts over.
func (s *HandlerService) handleNew(ctx context.Context, msg Message, arg string) ([]chat.Reply, error) {
	id := msg.Conversation()
	if err := s.drafts.DeleteDraft(ctx, id); err != nil {
		return nil, errors.Wrap(err, "handle new")
	}

	draft, res := s.guide.Advance(ctx, entry.NewDraft(), arg)
	if err := s.drafts.SaveDraft(ctx, id, draft); err != nil {
		return nil, errors.Wrap(err, "handle new")
	}
	return res, nil
}

func (s *HandlerService) handleText(ctx context.Context, msg Message, arg string) ([]chat.Reply, error) {
	id := msg.Conversation()
	draft, ok, err := s.drafts.GetDraft(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "handle text")
	}

	draft, res := s.guide.Advance(ctx, draft, arg)
	if !ok {
		return res, nil
	}
	if err = s.drafts.SaveDraft(ctx, id, draft); err != nil {
		logger.Error("cannot save draft",
			zap.String("conversation", id.String()),
			zap.String("state", string(draft.State)),
			zap.Error(err))
		if draft.State != entry.StateComplete {
			return nil, errors.Wrap(err, "handle text")
		}
		// submitted already; the stored draft would resubmit on the same answer
		if delErr := s.drafts.DeleteDraft(ctx, id); delErr != nil {
			logger.Error("cannot drop submitted draft",
				zap.String("conversation", id.String()),
				zap.Error(delErr))
		}
	}
	return res, nil
}

func (s *HandlerService) handleAI(ctx context.Context, msg Message, arg string) ([]chat.Reply, error) {
	if s.assistant == nil {
		return replies(chat.Text(noAssistantMessage)), nil
	}
	if strings.TrimSpace(arg) == "" {
		return replies(chat.Text(aiUsageMessage)), nil
	}

	// a later plain message must not continue an abandoned guided flow
	if err := s.drafts.DeleteDraft(ctx, msg.Conversation()); err != nil {
		return nil, errors.Wrap(err, "handle ai")
	}
	return replies(s.assistant.Run(ctx, msg.SenderName, arg)), nil
}

func (s *HandlerService) handleStatus(ctx context.Context, _ Message, _ string) ([]chat.Reply, error) {
	return replies(s.status.Status(ctx)), nil
}

func (s *HandlerService) handleStats(_ context.Context, _ Message, _ string) ([]chat.Reply, error) {
	return replies(chat.Text(notImplementedMessage)), nil
}

func replies(r ...chat.Reply) []chat.Reply {
	return r
}
