package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagebot/internal/entities"
	"pagebot/internal/interfaces"
)

func TestProcessWebhook_IgnoresNonPageObjects(t *testing.T) {
	service, store, messenger, _ := newTestService()
	seedCampaign(t, store, entities.Campaign{ID: "c1", Name: "N", RefKey: "ref"})

	service.ProcessWebhook(context.Background(), &entities.WebhookPayload{
		Object: "instagram",
		Entry: []entities.WebhookEntry{{
			Messaging: []entities.MessagingEvent{{
				Sender:   entities.Participant{ID: "user-1"},
				Referral: &entities.ReferralEvent{Ref: "ref"},
			}},
		}},
	})

	assert.Empty(t, messenger.sent)
}

func TestProcessWebhook_DispatchesEventsInOrder(t *testing.T) {
	service, store, messenger, _ := newTestService()
	seedCampaign(t, store, entities.Campaign{ID: "c1", Name: "Promo", RefKey: "ref"})
	seedResponse(t, store, entities.CannedResponse{ID: "r1", Trigger: "price", Message: "100"})

	service.ProcessWebhook(context.Background(), &entities.WebhookPayload{
		Object: "page",
		Entry: []entities.WebhookEntry{
			{Messaging: []entities.MessagingEvent{{
				Sender:   entities.Participant{ID: "user-1"},
				Referral: &entities.ReferralEvent{Ref: "ref"},
			}}},
			{Messaging: []entities.MessagingEvent{{
				Sender:  entities.Participant{ID: "user-1"},
				Message: &entities.MessageEvent{MID: "m1", Text: "what is the price"},
			}}},
		},
	})

	require.Len(t, messenger.sent, 2)
	assert.Contains(t, messenger.sent[0].Text, "Promo")
	assert.Equal(t, "100", messenger.sent[1].Text)
}

func TestProcessWebhook_ReferralInsideMessageAttributes(t *testing.T) {
	service, store, messenger, _ := newTestService()
	seedCampaign(t, store, entities.Campaign{ID: "c1", Name: "Promo", RefKey: "ref"})
	seedResponse(t, store, entities.CannedResponse{ID: "r1", Trigger: "hello", Message: "hi"})

	service.ProcessWebhook(context.Background(), &entities.WebhookPayload{
		Object: "page",
		Entry: []entities.WebhookEntry{{
			Messaging: []entities.MessagingEvent{{
				Sender: entities.Participant{ID: "user-1"},
				Message: &entities.MessageEvent{
					MID:      "m1",
					Text:     "hello",
					Referral: &entities.ReferralEvent{Ref: "ref"},
				},
			}},
		}},
	})

	// the embedded referral routes to attribution, not to message handling
	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0].Text, "Promo")

	campaign := storedCampaign(t, store, "c1")
	assert.Equal(t, 1, campaign.Impressions)
}

func TestProcessWebhook_UnknownEventShapesAreSkipped(t *testing.T) {
	service, _, messenger, _ := newTestService()

	service.ProcessWebhook(context.Background(), &entities.WebhookPayload{
		Object: "page",
		Entry: []entities.WebhookEntry{{
			Messaging: []entities.MessagingEvent{{
				Sender: entities.Participant{ID: "user-1"},
			}},
		}},
	})

	assert.Empty(t, messenger.sent)
}

func TestMessagingEventKind(t *testing.T) {
	referral := &entities.ReferralEvent{Ref: "ref"}

	tests := []struct {
		name  string
		event entities.MessagingEvent
		kind  entities.EventKind
		ref   string
	}{
		{"standalone referral", entities.MessagingEvent{Referral: referral}, entities.EventReferral, "ref"},
		{"referral embedded in message", entities.MessagingEvent{
			Message: &entities.MessageEvent{MID: "m1", Text: "hi", Referral: referral},
		}, entities.EventReferral, "ref"},
		{"plain message", entities.MessagingEvent{
			Message: &entities.MessageEvent{MID: "m1", Text: "hi"},
		}, entities.EventMessage, ""},
		{"postback", entities.MessagingEvent{
			Postback: &entities.PostbackEvent{Payload: "btn_1"},
		}, entities.EventPostback, ""},
		{"empty", entities.MessagingEvent{}, entities.EventUnknown, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.event.Kind())
			assert.Equal(t, tt.ref, tt.event.ReferralRef())
		})
	}
}

func TestSelectKnowledge(t *testing.T) {
	service, store, _, _ := newTestService()
	seedKnowledge(t, store, entities.KnowledgeItem{ID: "k1", Content: "tumbler facts", ProductName: "Tumbler"})
	seedKnowledge(t, store, entities.KnowledgeItem{ID: "k2", Content: "mug facts", ProductName: "Mug"})
	seedKnowledge(t, store, entities.KnowledgeItem{ID: "k3", Content: "general facts"})

	t.Run("nil session returns everything", func(t *testing.T) {
		items, err := service.SelectKnowledge(context.Background(), nil)
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("session without product returns everything", func(t *testing.T) {
		items, err := service.SelectKnowledge(context.Background(), &entities.UserCampaignSession{CampaignID: "c1"})
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("linked product scopes to matching items", func(t *testing.T) {
		items, err := service.SelectKnowledge(context.Background(), &entities.UserCampaignSession{
			CampaignID:    "c1",
			LinkedProduct: "Tumbler",
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "tumbler facts", items[0].Content)
	})

	t.Run("product with no items falls back to everything", func(t *testing.T) {
		items, err := service.SelectKnowledge(context.Background(), &entities.UserCampaignSession{
			CampaignID:    "c1",
			LinkedProduct: "Bottle",
		})
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})
}

func TestAPISettings_ZeroWhenUnset(t *testing.T) {
	service, store, _, _ := newTestService()

	settings, err := service.APISettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.APISettings{}, settings)

	require.NoError(t, store.Set(context.Background(), interfaces.KeyAPISettings,
		entities.APISettings{FacebookPageID: "123"}))

	settings, err = service.APISettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123", settings.FacebookPageID)
}
