package tg

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/chat"
	"max.ks1230/split-expenses-bot/internal/model/messages"
)

const (
	defaultUpdateOffset = 0
	timeoutSeconds      = 30
)

var botCommands = []tgbotapi.BotCommand{
	{Command: "add", Description: "Add a transaction step by step"},
	{Command: "ai", Description: "Add a transaction from a sentence"},
	{Command: "status", Description: "Show who owes how much"},
	{Command: "start", Description: "Show the available commands"},
	{Command: "help", Description: "Show the available commands"},
}

type tokenGetter interface {
	Token() string
}

type messageHandler interface {
	HandleIncomingMessage(ctx context.Context, msg messages.Message) error
}

type Client struct {
	client *tgbotapi.BotAPI
}

func New(tokenGetter tokenGetter) (*Client, error) {
	client, err := tgbotapi.NewBotAPI(tokenGetter.Token())
	if err != nil {
		return nil, errors.Wrap(err, "cannot NewBotApi")
	}
	return &Client{client}, nil
}

// RegisterCommands publishes the command menu shown by Telegram clients.
func (c *Client) RegisterCommands() error {
	_, err := c.client.Request(tgbotapi.NewSetMyCommands(botCommands...))
	if err != nil {
		return errors.Wrap(err, "client.Request setMyCommands")
	}
	return nil
}

func (c *Client) SendMessage(_ context.Context, chatID int64, replyTo int, reply chat.Reply) error {
	_, err := c.client.Send(newMessage(chatID, replyTo, reply))
	if err != nil {
		return errors.Wrap(err, "client.Send")
	}
	return nil
}

func newMessage(chatID int64, replyTo int, reply chat.Reply) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ReplyToMessageID = replyTo

	switch {
	case reply.Keyboard != nil:
		msg.ReplyMarkup = keyboardMarkup(reply.Keyboard)
	case reply.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}
	return msg
}

func keyboardMarkup(k *chat.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(k.Rows))
	for _, row := range k.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}

	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.OneTimeKeyboard = true
	markup.InputFieldPlaceholder = k.Placeholder
	return markup
}

func (c *Client) ListenUpdates(ctx context.Context, msgModel messageHandler) {
	u := tgbotapi.NewUpdate(defaultUpdateOffset)
	u.Timeout = 60

	updates := c.client.GetUpdatesChan(u)

	logger.Info("Start listening for messages")

	for {
		select {
		case <-ctx.Done():
			c.client.StopReceivingUpdates()
			logger.Info("Stop listening for messages")
			return
		case update := <-updates:
			c.listenOnce(ctx, update, msgModel)
		}
	}
}

func (c *Client) listenOnce(ctx context.Context, update tgbotapi.Update, msgModel messageHandler) {
	msg, ok := toMessage(update)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*timeoutSeconds)
	defer cancel()

	err := msgModel.HandleIncomingMessage(ctx, msg)
	if err != nil {
		logger.Error("error processing message:", zap.Error(err))
	}
}

func toMessage(update tgbotapi.Update) (messages.Message, bool) {
	m := update.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return messages.Message{}, false
	}
	return messages.Message{
		Text:       m.Text,
		ChatID:     m.Chat.ID,
		UserID:     m.From.ID,
		MessageID:  m.MessageID,
		SenderName: m.From.FirstName,
		UserName:   m.From.UserName,
	}, true
}
