// Package notify delivers booking activity to back-office operator chats.
package notify

import (
	"context"
	"fmt"

	"shareit/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier fans a message out to the configured operator chats.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chats  []int64
	logger *zerolog.Logger
}

func NewTelegramNotifier(cfg config.TelegramConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	bot.Debug = cfg.Debug

	logger.Info().Str("bot", bot.Self.UserName).Int("chats", len(cfg.OperatorChats)).Msg("telegram notifier ready")
	return &TelegramNotifier{bot: bot, chats: cfg.OperatorChats, logger: logger}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	var firstErr error
	for _, chatID := range n.chats {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("telegram send error")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
