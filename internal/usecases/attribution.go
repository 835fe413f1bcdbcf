package usecases

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pagebot/internal/entities"
	"pagebot/internal/interfaces"
)

const (
	// fallbackGreeting is sent when a referral code matches no campaign.
	fallbackGreeting = "مرحباً بك! كيف يمكننا مساعدتك اليوم؟"
	// chooseOptionPrompt accompanies a campaign's quick-reply buttons.
	chooseOptionPrompt = "اختر أحد الخيارات:"
)

// HandleReferral attributes a referral arrival to a campaign: bumps the
// campaign counters, sends the welcome message plus the campaign's buttons as
// quick replies, and records the sender's campaign session. Counters count
// every arrival, not just first-time ones: a referral is both an impression
// and a conversion. Failures are logged and stop the handler; already-applied
// side effects are not rolled back.
func (s *BotService) HandleReferral(ctx context.Context, senderID, ref string) {
	if ref == "" {
		s.logger.Debug("referral event without ref", zap.String("sender", senderID))
		return
	}
	s.logger.Info("referral received", zap.String("sender", senderID), zap.String("ref", ref))

	campaigns, err := listTyped[entities.Campaign](ctx, s.store, interfaces.PrefixCampaign)
	if err != nil {
		s.logger.Error("list campaigns", zap.Error(err))
		return
	}

	var matched *entities.Campaign
	for i := range campaigns {
		if campaigns[i].RefKey != "" && campaigns[i].RefKey == ref {
			matched = &campaigns[i]
			break
		}
	}

	if matched == nil {
		s.logger.Info("no campaign for ref", zap.String("ref", ref))
		if err := s.messenger.SendText(ctx, senderID, fallbackGreeting, ""); err != nil {
			s.logger.Error("send fallback greeting", zap.Error(err))
		}
		return
	}

	if err := s.incrementCounters(ctx, matched); err != nil {
		s.logger.Error("increment campaign counters",
			zap.String("campaign", matched.ID), zap.Error(err))
		return
	}

	welcome := fmt.Sprintf("مرحباً بك في %s!\n\n%s", matched.Name, matched.Description)
	if err := s.messenger.SendText(ctx, senderID, welcome, ""); err != nil {
		s.logger.Error("send welcome", zap.String("campaign", matched.ID), zap.Error(err))
		return
	}

	if len(matched.Buttons) > 0 {
		if err := s.messenger.SendQuickReplies(ctx, senderID, chooseOptionPrompt, matched.Buttons); err != nil {
			s.logger.Error("send quick replies", zap.String("campaign", matched.ID), zap.Error(err))
			return
		}
	}

	session := entities.UserCampaignSession{
		CampaignID:    matched.ID,
		CampaignName:  matched.Name,
		LinkedProduct: matched.LinkedProduct,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.store.Set(ctx, interfaces.PrefixUserCampaign+senderID, session); err != nil {
		s.logger.Error("save campaign session", zap.String("sender", senderID), zap.Error(err))
	}
}

// incrementCounters prefers the store's atomic counter capability and falls
// back to read-modify-write, which can lose updates under concurrent
// referrals for the same campaign.
func (s *BotService) incrementCounters(ctx context.Context, campaign *entities.Campaign) error {
	key := interfaces.PrefixCampaign + campaign.ID
	if counters, ok := s.store.(interfaces.CounterStore); ok {
		found, err := counters.IncrCampaignCounters(ctx, key)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("campaign %q disappeared", campaign.ID)
		}
		return nil
	}
	campaign.Impressions++
	campaign.Conversions++
	return s.store.Set(ctx, key, campaign)
}
