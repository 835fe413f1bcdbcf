package usecases

import (
	"context"

	"pagebot/internal/entities"
	"pagebot/internal/interfaces"
)

// SelectKnowledge picks the knowledge subset used to ground an AI reply. A
// sender with a campaign session scoped to a product gets only that product's
// items; without a session, without a linked product, or when no item matches
// the product, the full knowledge base is used so the context never ends up
// empty by accident.
func (s *BotService) SelectKnowledge(ctx context.Context, session *entities.UserCampaignSession) ([]entities.KnowledgeItem, error) {
	items, err := listTyped[entities.KnowledgeItem](ctx, s.store, interfaces.PrefixKnowledge)
	if err != nil {
		return nil, err
	}
	if session == nil || session.LinkedProduct == "" {
		return items, nil
	}

	productItems := make([]entities.KnowledgeItem, 0, len(items))
	for _, item := range items {
		if item.ProductName != "" && item.ProductName == session.LinkedProduct {
			productItems = append(productItems, item)
		}
	}
	if len(productItems) > 0 {
		return productItems, nil
	}
	return items, nil
}
