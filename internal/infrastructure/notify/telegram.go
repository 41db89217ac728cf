package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
	"github.com/yourusername/tile-inventory/pkg/logger"
)

// sender is the part of *tgbotapi.BotAPI the notifier uses.
type sender interface {
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// TelegramNotifier posts messages to one chat, optionally inside a forum topic.
type TelegramNotifier struct {
	bot      sender
	chatID   int64
	threadID int
}

// NewTelegramNotifier connects to the Bot API. It returns a no-op notifier
// when token or chat are empty.
func NewTelegramNotifier(token string, chatID int64, threadID int) (repository.Notifier, error) {
	if strings.TrimSpace(token) == "" || chatID == 0 {
		return Nop{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logger.Infof("✅ Telegram notifier ready: @%s", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: chatID, threadID: threadID}, nil
}

// NewTelegramNotifierWithEndpoint is used against a custom Bot API server.
// endpoint is a format string such as "https://api.telegram.org/bot%s/%s".
func NewTelegramNotifierWithEndpoint(token, endpoint string, client *http.Client, chatID int64, threadID int) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, threadID: threadID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	params := make(tgbotapi.Params)
	params.AddNonZero64("chat_id", n.chatID)
	params.AddNonZero("message_thread_id", n.threadID)
	params.AddNonEmpty("text", text)
	params.AddBool("disable_web_page_preview", true)

	resp, err := n.bot.MakeRequest("sendMessage", params)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if resp != nil && !resp.Ok {
		return fmt.Errorf("telegram send: %s", resp.Description)
	}
	return nil
}

// Nop drops every message.
type Nop struct{}

func (Nop) Notify(context.Context, string) error { return nil }
