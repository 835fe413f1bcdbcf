package usecases

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"pagebot/internal/entities"
	"pagebot/internal/interfaces"
)

// Reply precedence for a free-text message:
//  1. AI path, when AI is enabled and an OpenAI key is configured
//  2. canned trigger match, otherwise
//
// Postbacks short-circuit to the campaign button lookup. Whatever the
// outcome, the sender's conversation snapshot is overwritten first.

// HandleMessage resolves a free-text message into at most one reply.
func (s *BotService) HandleMessage(ctx context.Context, senderID, messageID, text string) {
	s.logger.Info("message received", zap.String("sender", senderID))

	session, err := s.loadSession(ctx, senderID)
	if err != nil {
		s.logger.Error("load campaign session", zap.String("sender", senderID), zap.Error(err))
		session = nil
	}

	s.saveConversation(ctx, senderID, messageID, text, session)

	aiSettings, err := s.aiSettings(ctx)
	if err != nil {
		s.logger.Error("load ai settings", zap.Error(err))
		aiSettings = entities.DefaultAISettings()
	}
	apiSettings, err := s.APISettings(ctx)
	if err != nil {
		s.logger.Error("load api settings", zap.Error(err))
	}

	if apiSettings.OpenAIAPIKey == "" || !aiSettings.Enabled {
		s.replyFromCannedResponses(ctx, senderID, text)
		return
	}
	s.replyFromAI(ctx, senderID, text, session, aiSettings, apiSettings)
}

// HandlePostback answers a button tap with the button's stored response. The
// scan runs in campaign enumeration order, then button order; the first id
// match wins even when campaigns reuse button ids.
func (s *BotService) HandlePostback(ctx context.Context, senderID, payload string) {
	s.logger.Info("postback received", zap.String("sender", senderID), zap.String("payload", payload))

	campaigns, err := listTyped[entities.Campaign](ctx, s.store, interfaces.PrefixCampaign)
	if err != nil {
		s.logger.Error("list campaigns", zap.Error(err))
		return
	}
	for _, campaign := range campaigns {
		for _, button := range campaign.Buttons {
			if button.ID == payload {
				if err := s.messenger.SendText(ctx, senderID, button.Response, button.ImageURL); err != nil {
					s.logger.Error("send button response", zap.String("button", button.ID), zap.Error(err))
				}
				return
			}
		}
	}
	s.logger.Debug("no button for postback payload", zap.String("payload", payload))
}

// replyFromCannedResponses sends the first stored response whose trigger
// phrase appears in the message (case-insensitive substring). No match means
// no reply.
func (s *BotService) replyFromCannedResponses(ctx context.Context, senderID, text string) {
	responses, err := listTyped[entities.CannedResponse](ctx, s.store, interfaces.PrefixResponse)
	if err != nil {
		s.logger.Error("list canned responses", zap.Error(err))
		return
	}
	lower := strings.ToLower(text)
	for _, response := range responses {
		if strings.Contains(lower, strings.ToLower(response.Trigger)) {
			if err := s.messenger.SendText(ctx, senderID, response.Message, response.ImageURL); err != nil {
				s.logger.Error("send canned response", zap.String("response", response.ID), zap.Error(err))
			}
			return
		}
	}
}

// replyFromAI grounds a completion in the selected knowledge subset. A failed
// completion produces no reply; there is no fallback to canned responses once
// the AI path was chosen.
func (s *BotService) replyFromAI(ctx context.Context, senderID, text string, session *entities.UserCampaignSession, aiSettings entities.AISettings, apiSettings entities.APISettings) {
	knowledge, err := s.SelectKnowledge(ctx, session)
	if err != nil {
		s.logger.Error("select knowledge", zap.Error(err))
		return
	}

	model := aiSettings.Model
	if model == "" {
		model = "gpt-3.5-turbo"
	}
	temperature := aiSettings.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	reply, err := s.ai.Complete(ctx, apiSettings.OpenAIAPIKey,
		buildSystemPrompt(session, knowledge), text, model, temperature)
	if err != nil {
		s.logger.Error("ai completion", zap.String("sender", senderID), zap.Error(err))
		return
	}
	if err := s.messenger.SendText(ctx, senderID, reply, ""); err != nil {
		s.logger.Error("send ai reply", zap.String("sender", senderID), zap.Error(err))
	}
}

// buildSystemPrompt names the linked product when the sender has one and
// appends the knowledge contents separated by blank lines.
func buildSystemPrompt(session *entities.UserCampaignSession, knowledge []entities.KnowledgeItem) string {
	contents := make([]string, 0, len(knowledge))
	for _, item := range knowledge {
		contents = append(contents, item.Content)
	}

	var b strings.Builder
	b.WriteString("أنت مساعد خدمة عملاء ذكي")
	if session != nil && session.LinkedProduct != "" {
		b.WriteString(" متخصص في المنتج: " + session.LinkedProduct)
	}
	b.WriteString(". استخدم المعلومات التالية للرد على العملاء:\n\n")
	b.WriteString(strings.Join(contents, "\n\n"))
	return b.String()
}

// saveConversation overwrites the sender's latest-conversation snapshot,
// independent of whether a reply ends up being produced.
func (s *BotService) saveConversation(ctx context.Context, senderID, messageID, text string, session *entities.UserCampaignSession) {
	conversation := entities.Conversation{
		ID:           messageID,
		SenderID:     senderID,
		CustomerName: "User " + senderID,
		LastMessage:  text,
		Timestamp:    time.Now().UTC(),
		Source:       "Messenger",
		Unread:       true,
		Status:       "active",
	}
	if session != nil {
		conversation.CampaignName = session.CampaignName
	}
	if err := s.store.Set(ctx, interfaces.PrefixConversation+senderID, conversation); err != nil {
		s.logger.Error("save conversation", zap.String("sender", senderID), zap.Error(err))
	}
}
