package notifier

import (
	"context"

	"github.com/go-telegram/bot"

	"github.com/core-coin/vectigal/pkg/logger"
)

// TelegramNotifier sends operator alerts to a fixed chat.
type TelegramNotifier struct {
	logger *logger.Logger
	bot    *bot.Bot

	// chatID is the operator's chat, from configuration.
	chatID string
}

func NewTelegramNotifier(logger *logger.Logger, token, chatID string) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, err
	}

	return &TelegramNotifier{
		logger: logger,
		bot:    b,
		chatID: chatID,
	}, nil
}

func (t *TelegramNotifier) SendAlert(message string) {
	params := &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   message,
	}
	_, err := t.bot.SendMessage(context.Background(), params)
	if err != nil {
		t.logger.Error("Failed to send telegram alert: ", err)
	}
}
