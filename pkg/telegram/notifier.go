// Package telegram delivers notification text to a single Telegram chat.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxMessageLength is Telegram's limit for one text message
const maxMessageLength = 4096

// Notifier sends plain text messages to one chat
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// New authorizes the bot token against the Telegram API
func New(token string, chatID int64) (*Notifier, error) {
	return NewWithEndpoint(token, chatID, tgbotapi.APIEndpoint)
}

// NewWithEndpoint is New against a custom API endpoint (format "<base>/bot%s/%s")
func NewWithEndpoint(token string, chatID int64, endpoint string) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Notifier{api: api, chatID: chatID}, nil
}

// Username of the authorized bot
func (n *Notifier) Username() string {
	return n.api.Self.UserName
}

// Send delivers text, split into several messages when too long
func (n *Notifier) Send(ctx context.Context, text string) error {
	for _, part := range splitMessage(text, maxMessageLength) {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, part)); err != nil {
			return fmt.Errorf("send telegram message: %w", err)
		}
	}
	return nil
}

func splitMessage(text string, maxLength int) []string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 {
		n := maxLength
		if len(runes) < n {
			n = len(runes)
		}
		parts = append(parts, string(runes[:n]))
		runes = runes[n:]
	}
	return parts
}
