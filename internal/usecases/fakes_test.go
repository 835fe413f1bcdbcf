package usecases

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"pagebot/internal/entities"
	"pagebot/internal/interfaces"
	"pagebot/internal/repository"
)

// Interface compliance (compile-time assertions)
var (
	_ interfaces.Messenger    = (*fakeMessenger)(nil)
	_ interfaces.AIClient     = (*fakeAI)(nil)
	_ interfaces.Store        = (*repository.MemoryStore)(nil)
	_ interfaces.CounterStore = (*repository.MemoryStore)(nil)
)

type sentMessage struct {
	Recipient string
	Text      string
	ImageURL  string
	Buttons   []entities.CampaignButton
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
}

func (f *fakeMessenger) SendText(ctx context.Context, recipientID, text, imageURL string) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Recipient: recipientID, Text: text, ImageURL: imageURL})
	return nil
}

func (f *fakeMessenger) SendQuickReplies(ctx context.Context, recipientID, text string, buttons []entities.CampaignButton) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{Recipient: recipientID, Text: text, Buttons: buttons})
	return nil
}

type aiCall struct {
	APIKey       string
	SystemPrompt string
	UserMessage  string
	Model        string
	Temperature  float64
}

type fakeAI struct {
	reply string
	err   error
	calls []aiCall
}

func (f *fakeAI) Complete(ctx context.Context, apiKey, systemPrompt, userMessage, model string, temperature float64) (string, error) {
	f.calls = append(f.calls, aiCall{
		APIKey:       apiKey,
		SystemPrompt: systemPrompt,
		UserMessage:  userMessage,
		Model:        model,
		Temperature:  temperature,
	})
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// plainStore hides MemoryStore's counter capability so tests can exercise the
// read-modify-write fallback.
type plainStore struct {
	interfaces.Store
}

func newTestService() (*BotService, *repository.MemoryStore, *fakeMessenger, *fakeAI) {
	store := repository.NewMemoryStore()
	messenger := &fakeMessenger{}
	ai := &fakeAI{reply: "generated reply"}
	service := NewBotService(store, ai, messenger, zap.NewNop())
	return service, store, messenger, ai
}
