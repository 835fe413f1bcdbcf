package interfaces

import (
	"context"
	"encoding/json"

	"pagebot/internal/entities"
)

// Store key space shared with the management dashboard.
const (
	KeyAPISettings = "api:settings"
	KeyAISettings  = "ai:settings"

	PrefixCampaign     = "campaign:"
	PrefixResponse     = "response:"
	PrefixKnowledge    = "knowledge:"
	PrefixConversation = "conversation:"
	PrefixUserCampaign = "user_campaign:"
)

// Store is the uniform key-value access used by every component. Get returns
// nil without error when the key is absent. GetByPrefix enumerates values in
// key order.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error)
}

// CounterStore is an optional Store capability for bumping campaign counters
// atomically. Stores that do not implement it leave callers with a
// read-modify-write fallback that can lose updates under concurrent referrals.
type CounterStore interface {
	// IncrCampaignCounters adds 1 to both impressions and conversions of the
	// campaign stored under key. Returns false when the key does not exist.
	IncrCampaignCounters(ctx context.Context, key string) (bool, error)
}

// AIClient produces a grounded completion for a user message. The API key is
// passed per call because credentials live in the store, not the process.
type AIClient interface {
	Complete(ctx context.Context, apiKey, systemPrompt, userMessage, model string, temperature float64) (string, error)
}

// Messenger delivers outbound messages to the platform send API. A missing
// access token is not an error: the send is logged and skipped.
type Messenger interface {
	SendText(ctx context.Context, recipientID, text, imageURL string) error
	SendQuickReplies(ctx context.Context, recipientID, text string, buttons []entities.CampaignButton) error
}
