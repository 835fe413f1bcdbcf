package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"pagebot/internal/entities"
	"pagebot/internal/interfaces"
)

// ErrNotFound is returned when an update or delete names a missing record.
var ErrNotFound = errors.New("not found")

// DashboardUsecase is the management-side CRUD collaborator: plain read/write
// over the key-value store with no decision logic. The bot engine only ever
// reads what this writes (campaigns, responses, knowledge, settings).
type DashboardUsecase struct {
	store interfaces.Store
}

func NewDashboardUsecase(store interfaces.Store) *DashboardUsecase {
	return &DashboardUsecase{store: store}
}

// Settings

func (u *DashboardUsecase) APISettings(ctx context.Context) (entities.APISettings, error) {
	settings, err := getTyped[entities.APISettings](ctx, u.store, interfaces.KeyAPISettings)
	if err != nil {
		return entities.APISettings{}, err
	}
	if settings == nil {
		return entities.APISettings{}, nil
	}
	return *settings, nil
}

func (u *DashboardUsecase) SaveAPISettings(ctx context.Context, settings entities.APISettings) error {
	return u.store.Set(ctx, interfaces.KeyAPISettings, settings)
}

func (u *DashboardUsecase) AISettings(ctx context.Context) (entities.AISettings, error) {
	settings, err := getTyped[entities.AISettings](ctx, u.store, interfaces.KeyAISettings)
	if err != nil {
		return entities.AISettings{}, err
	}
	if settings == nil {
		return entities.DefaultAISettings(), nil
	}
	return *settings, nil
}

func (u *DashboardUsecase) SaveAISettings(ctx context.Context, settings entities.AISettings) error {
	return u.store.Set(ctx, interfaces.KeyAISettings, settings)
}

// SetAIEnabled flips the enabled flag while keeping the rest of the stored
// settings intact.
func (u *DashboardUsecase) SetAIEnabled(ctx context.Context, enabled bool) (entities.AISettings, error) {
	settings, err := u.AISettings(ctx)
	if err != nil {
		return entities.AISettings{}, err
	}
	settings.Enabled = enabled
	if err := u.SaveAISettings(ctx, settings); err != nil {
		return entities.AISettings{}, err
	}
	return settings, nil
}

// Campaigns

func (u *DashboardUsecase) Campaigns(ctx context.Context) ([]entities.Campaign, error) {
	return listTyped[entities.Campaign](ctx, u.store, interfaces.PrefixCampaign)
}

// CreateCampaign assigns a fresh id, zeroes the counters and stamps the
// creation date regardless of what the request carried.
func (u *DashboardUsecase) CreateCampaign(ctx context.Context, campaign entities.Campaign) (entities.Campaign, error) {
	campaign.ID = uuid.NewString()
	campaign.Conversions = 0
	campaign.Impressions = 0
	campaign.CreatedAt = time.Now().UTC().Format("2006-01-02")
	if campaign.Buttons == nil {
		campaign.Buttons = []entities.CampaignButton{}
	}
	if err := u.store.Set(ctx, interfaces.PrefixCampaign+campaign.ID, campaign); err != nil {
		return entities.Campaign{}, err
	}
	return campaign, nil
}

// UpdateCampaign merges the patch over the stored record: fields absent from
// the patch keep their current value, including the counters.
func (u *DashboardUsecase) UpdateCampaign(ctx context.Context, id string, patch json.RawMessage) (entities.Campaign, error) {
	existing, err := getTyped[entities.Campaign](ctx, u.store, interfaces.PrefixCampaign+id)
	if err != nil {
		return entities.Campaign{}, err
	}
	if existing == nil {
		return entities.Campaign{}, ErrNotFound
	}
	if err := json.Unmarshal(patch, existing); err != nil {
		return entities.Campaign{}, err
	}
	existing.ID = id
	if err := u.store.Set(ctx, interfaces.PrefixCampaign+id, existing); err != nil {
		return entities.Campaign{}, err
	}
	return *existing, nil
}

func (u *DashboardUsecase) DeleteCampaign(ctx context.Context, id string) error {
	return u.store.Delete(ctx, interfaces.PrefixCampaign+id)
}

// Canned responses

func (u *DashboardUsecase) Responses(ctx context.Context) ([]entities.CannedResponse, error) {
	return listTyped[entities.CannedResponse](ctx, u.store, interfaces.PrefixResponse)
}

func (u *DashboardUsecase) CreateResponse(ctx context.Context, response entities.CannedResponse) (entities.CannedResponse, error) {
	response.ID = uuid.NewString()
	response.CreatedAt = time.Now().UTC().Format("2006-01-02")
	if err := u.store.Set(ctx, interfaces.PrefixResponse+response.ID, response); err != nil {
		return entities.CannedResponse{}, err
	}
	return response, nil
}

func (u *DashboardUsecase) UpdateResponse(ctx context.Context, id string, patch json.RawMessage) (entities.CannedResponse, error) {
	existing, err := getTyped[entities.CannedResponse](ctx, u.store, interfaces.PrefixResponse+id)
	if err != nil {
		return entities.CannedResponse{}, err
	}
	if existing == nil {
		return entities.CannedResponse{}, ErrNotFound
	}
	if err := json.Unmarshal(patch, existing); err != nil {
		return entities.CannedResponse{}, err
	}
	existing.ID = id
	if err := u.store.Set(ctx, interfaces.PrefixResponse+id, existing); err != nil {
		return entities.CannedResponse{}, err
	}
	return *existing, nil
}

func (u *DashboardUsecase) DeleteResponse(ctx context.Context, id string) error {
	return u.store.Delete(ctx, interfaces.PrefixResponse+id)
}

// Knowledge base

func (u *DashboardUsecase) Knowledge(ctx context.Context) ([]entities.KnowledgeItem, error) {
	return listTyped[entities.KnowledgeItem](ctx, u.store, interfaces.PrefixKnowledge)
}

func (u *DashboardUsecase) CreateKnowledge(ctx context.Context, item entities.KnowledgeItem) (entities.KnowledgeItem, error) {
	item.ID = uuid.NewString()
	item.CreatedAt = time.Now().UTC().Format("2006-01-02")
	if err := u.store.Set(ctx, interfaces.PrefixKnowledge+item.ID, item); err != nil {
		return entities.KnowledgeItem{}, err
	}
	return item, nil
}

func (u *DashboardUsecase) DeleteKnowledge(ctx context.Context, id string) error {
	return u.store.Delete(ctx, interfaces.PrefixKnowledge+id)
}

// Conversations & stats

func (u *DashboardUsecase) Conversations(ctx context.Context) ([]entities.Conversation, error) {
	return listTyped[entities.Conversation](ctx, u.store, interfaces.PrefixConversation)
}

type DashboardStats struct {
	TotalConversations int  `json:"totalConversations"`
	NewToday           int  `json:"newToday"`
	AIEnabled          bool `json:"aiEnabled"`
	ActiveCampaigns    int  `json:"activeCampaigns"`
}

func (u *DashboardUsecase) Stats(ctx context.Context) (DashboardStats, error) {
	conversations, err := u.Conversations(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	campaigns, err := u.Campaigns(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	aiSettings, err := u.AISettings(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{
		TotalConversations: len(conversations),
		AIEnabled:          aiSettings.Enabled,
	}
	today := time.Now().UTC().Format("2006-01-02")
	for _, conversation := range conversations {
		if conversation.Timestamp.UTC().Format("2006-01-02") == today {
			stats.NewToday++
		}
	}
	for _, campaign := range campaigns {
		if campaign.Status == "active" {
			stats.ActiveCampaigns++
		}
	}
	return stats, nil
}

type ProductRef struct {
	Name string `json:"name"`
}

// Products lists the distinct product names found in the knowledge base, in
// first-seen order.
func (u *DashboardUsecase) Products(ctx context.Context) ([]ProductRef, error) {
	items, err := u.Knowledge(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	products := []ProductRef{}
	for _, item := range items {
		if item.ProductName == "" || seen[item.ProductName] {
			continue
		}
		seen[item.ProductName] = true
		products = append(products, ProductRef{Name: item.ProductName})
	}
	return products, nil
}
