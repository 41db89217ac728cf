package notify

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	endpoint string
	params   tgbotapi.Params
	resp     *tgbotapi.APIResponse
}

func (f *fakeSender) MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error) {
	f.endpoint = endpoint
	f.params = params
	return f.resp, nil
}

func TestNotifyPostsToTopic(t *testing.T) {
	fs := &fakeSender{resp: &tgbotapi.APIResponse{Ok: true}}
	n := &TelegramNotifier{bot: fs, chatID: -100123, threadID: 4}

	require.NoError(t, n.Notify(context.Background(), "  Bulk edit done  "))
	assert.Equal(t, "sendMessage", fs.endpoint)
	assert.Equal(t, "-100123", fs.params["chat_id"])
	assert.Equal(t, "4", fs.params["message_thread_id"])
	assert.Equal(t, "Bulk edit done", fs.params["text"])
}

func TestNotifySkipsEmptyAndReportsAPIErrors(t *testing.T) {
	fs := &fakeSender{resp: &tgbotapi.APIResponse{Ok: false, Description: "chat not found"}}
	n := &TelegramNotifier{bot: fs, chatID: -1}

	require.NoError(t, n.Notify(context.Background(), "   "))
	assert.Empty(t, fs.endpoint)

	err := n.Notify(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
	_, hasThread := fs.params["message_thread_id"]
	assert.False(t, hasThread)
}

func TestUnconfiguredNotifierIsNop(t *testing.T) {
	n, err := NewTelegramNotifier("", 0, 0)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)
	assert.NoError(t, n.Notify(context.Background(), "x"))
}
