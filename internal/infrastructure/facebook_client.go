package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"pagebot/internal/entities"
	"pagebot/internal/interfaces"
)

// FacebookClient sends messages through the Graph API send endpoint. The page
// access token is read from the store on every call so dashboard edits take
// effect immediately; an empty token downgrades the send to a logged no-op.
type FacebookClient struct {
	store   interfaces.Store
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewFacebookClient(store interfaces.Store, logger *zap.Logger) *FacebookClient {
	return &FacebookClient{
		store:   store,
		baseURL: "https://graph.facebook.com/v18.0",
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

func (f *FacebookClient) SendText(ctx context.Context, recipientID, text, imageURL string) error {
	message := map[string]interface{}{
		"text": text,
	}
	if imageURL != "" {
		message["attachment"] = map[string]interface{}{
			"type":    "image",
			"payload": map[string]string{"url": imageURL},
		}
	}
	return f.send(ctx, recipientID, message)
}

func (f *FacebookClient) SendQuickReplies(ctx context.Context, recipientID, text string, buttons []entities.CampaignButton) error {
	quickReplies := make([]map[string]string, 0, len(buttons))
	for _, button := range buttons {
		quickReplies = append(quickReplies, map[string]string{
			"content_type": "text",
			"title":        button.Label,
			"payload":      button.ID,
		})
	}
	message := map[string]interface{}{
		"text":          text,
		"quick_replies": quickReplies,
	}
	return f.send(ctx, recipientID, message)
}

func (f *FacebookClient) send(ctx context.Context, recipientID string, message map[string]interface{}) error {
	token, err := f.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("load api settings: %w", err)
	}
	if token == "" {
		f.logger.Warn("no facebook access token configured, skipping send",
			zap.String("recipient", recipientID))
		return nil
	}

	payload := map[string]interface{}{
		"recipient": map[string]string{"id": recipientID},
		"message":   message,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal send payload: %w", err)
	}

	endpoint := f.baseURL + "/me/messages?access_token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// TestPage verifies a page access token by fetching the page's name and id.
// Used by the dashboard's connection test, with credentials from the request
// rather than the store.
func (f *FacebookClient) TestPage(ctx context.Context, accessToken, pageID string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=name,id&access_token=%s",
		f.baseURL, url.PathEscape(pageID), url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page info: %w", err)
	}
	defer resp.Body.Close()

	var page struct {
		Name  string `json:"name"`
		ID    string `json:"id"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return "", fmt.Errorf("decode page info: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if page.Error.Message != "" {
			return "", fmt.Errorf("fetch page info: %s", page.Error.Message)
		}
		return "", fmt.Errorf("fetch page info: status %d", resp.StatusCode)
	}
	return page.Name, nil
}

func (f *FacebookClient) accessToken(ctx context.Context) (string, error) {
	raw, err := f.store.Get(ctx, interfaces.KeyAPISettings)
	if err != nil {
		return "", err
	}
	if raw == nil {
		return "", nil
	}
	var settings entities.APISettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return "", err
	}
	return settings.FacebookPageAccessToken, nil
}
