package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"pagebot/internal/entities"
	"pagebot/internal/interfaces"
)

// BotService is the inbound event resolution engine: it classifies webhook
// events, attributes referrals to campaigns and produces automated replies.
// Every failure inside event handling is logged and swallowed so the rest of
// the batch is still processed and the platform never sees an error.
type BotService struct {
	store     interfaces.Store
	ai        interfaces.AIClient
	messenger interfaces.Messenger
	logger    *zap.Logger
}

func NewBotService(store interfaces.Store, ai interfaces.AIClient, messenger interfaces.Messenger, logger *zap.Logger) *BotService {
	return &BotService{
		store:     store,
		ai:        ai,
		messenger: messenger,
		logger:    logger,
	}
}

// ProcessWebhook dispatches every messaging event of a delivery in entry
// order, then event order. Events are not reordered or deduplicated; unknown
// event shapes are silently ignored.
func (s *BotService) ProcessWebhook(ctx context.Context, payload *entities.WebhookPayload) {
	if payload.Object != "page" {
		return
	}
	for _, entry := range payload.Entry {
		for i := range entry.Messaging {
			event := &entry.Messaging[i]
			switch event.Kind() {
			case entities.EventReferral:
				s.HandleReferral(ctx, event.Sender.ID, event.ReferralRef())
			case entities.EventMessage:
				s.HandleMessage(ctx, event.Sender.ID, event.Message.MID, event.Message.Text)
			case entities.EventPostback:
				s.HandlePostback(ctx, event.Sender.ID, event.Postback.Payload)
			}
		}
	}
}

// APISettings returns the stored platform credentials, zero-valued when none
// are configured. Always read fresh, never cached.
func (s *BotService) APISettings(ctx context.Context) (entities.APISettings, error) {
	settings, err := getTyped[entities.APISettings](ctx, s.store, interfaces.KeyAPISettings)
	if err != nil {
		return entities.APISettings{}, err
	}
	if settings == nil {
		return entities.APISettings{}, nil
	}
	return *settings, nil
}

func (s *BotService) aiSettings(ctx context.Context) (entities.AISettings, error) {
	settings, err := getTyped[entities.AISettings](ctx, s.store, interfaces.KeyAISettings)
	if err != nil {
		return entities.AISettings{}, err
	}
	if settings == nil {
		return entities.DefaultAISettings(), nil
	}
	return *settings, nil
}

func (s *BotService) loadSession(ctx context.Context, senderID string) (*entities.UserCampaignSession, error) {
	return getTyped[entities.UserCampaignSession](ctx, s.store, interfaces.PrefixUserCampaign+senderID)
}

// getTyped fetches and decodes a single value, returning nil when the key is
// absent.
func getTyped[T any](ctx context.Context, store interfaces.Store, key string) (*T, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("decode %q: %w", key, err)
	}
	return &value, nil
}

// listTyped fetches and decodes all values under a prefix, in store
// enumeration order.
func listTyped[T any](ctx context.Context, store interfaces.Store, prefix string) ([]T, error) {
	raws, err := store.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	values := make([]T, 0, len(raws))
	for _, raw := range raws {
		var value T
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("decode %q entry: %w", prefix, err)
		}
		values = append(values, value)
	}
	return values, nil
}
