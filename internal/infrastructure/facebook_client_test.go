package infrastructure

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pagebot/internal/entities"
	"pagebot/internal/interfaces"
	"pagebot/internal/repository"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   map[string]any
}

func newGraphStub(t *testing.T, status int, response string) (*httptest.Server, *[]capturedRequest) {
	t.Helper()
	var requests []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured := capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
		}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &captured.Body)
		}
		requests = append(requests, captured)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestFacebookClient(t *testing.T, srv *httptest.Server, token string) *FacebookClient {
	t.Helper()
	store := repository.NewMemoryStore()
	if token != "" {
		require.NoError(t, store.Set(context.Background(), interfaces.KeyAPISettings,
			entities.APISettings{FacebookPageAccessToken: token}))
	}
	return &FacebookClient{
		store:   store,
		baseURL: srv.URL,
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  zap.NewNop(),
	}
}

func TestSendText(t *testing.T) {
	srv, requests := newGraphStub(t, http.StatusOK, `{"message_id":"m1"}`)
	client := newTestFacebookClient(t, srv, "token-123")

	err := client.SendText(context.Background(), "user-1", "hello", "")
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/me/messages", req.Path)
	assert.Equal(t, []string{"token-123"}, req.Query["access_token"])

	recipient := req.Body["recipient"].(map[string]any)
	assert.Equal(t, "user-1", recipient["id"])
	message := req.Body["message"].(map[string]any)
	assert.Equal(t, "hello", message["text"])
	assert.NotContains(t, message, "attachment")
}

func TestSendText_WithImageAttachment(t *testing.T) {
	srv, requests := newGraphStub(t, http.StatusOK, `{}`)
	client := newTestFacebookClient(t, srv, "token-123")

	err := client.SendText(context.Background(), "user-1", "hello", "https://example.com/i.png")
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	message := (*requests)[0].Body["message"].(map[string]any)
	attachment := message["attachment"].(map[string]any)
	assert.Equal(t, "image", attachment["type"])
	payload := attachment["payload"].(map[string]any)
	assert.Equal(t, "https://example.com/i.png", payload["url"])
}

func TestSendQuickReplies(t *testing.T) {
	srv, requests := newGraphStub(t, http.StatusOK, `{}`)
	client := newTestFacebookClient(t, srv, "token-123")

	err := client.SendQuickReplies(context.Background(), "user-1", "اختر:", []entities.CampaignButton{
		{ID: "btn_1", Label: "السعر"},
		{ID: "btn_2", Label: "الشحن"},
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	message := (*requests)[0].Body["message"].(map[string]any)
	assert.Equal(t, "اختر:", message["text"])

	replies := message["quick_replies"].([]any)
	require.Len(t, replies, 2)
	first := replies[0].(map[string]any)
	assert.Equal(t, "text", first["content_type"])
	assert.Equal(t, "السعر", first["title"])
	assert.Equal(t, "btn_1", first["payload"])
	second := replies[1].(map[string]any)
	assert.Equal(t, "btn_2", second["payload"])
}

func TestSend_SkipsWithoutToken(t *testing.T) {
	srv, requests := newGraphStub(t, http.StatusOK, `{}`)
	client := newTestFacebookClient(t, srv, "")

	err := client.SendText(context.Background(), "user-1", "hello", "")
	require.NoError(t, err)
	assert.Empty(t, *requests)
}

func TestSend_GraphAPIError(t *testing.T) {
	srv, _ := newGraphStub(t, http.StatusBadRequest, `{"error":{"message":"Invalid OAuth token"}}`)
	client := newTestFacebookClient(t, srv, "bad-token")

	err := client.SendText(context.Background(), "user-1", "hello", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "Invalid OAuth token")
}

func TestTestPage(t *testing.T) {
	srv, requests := newGraphStub(t, http.StatusOK, `{"name":"My Page","id":"123"}`)
	client := newTestFacebookClient(t, srv, "")

	name, err := client.TestPage(context.Background(), "token-123", "123")
	require.NoError(t, err)
	assert.Equal(t, "My Page", name)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/123", req.Path)
	assert.Equal(t, []string{"name,id"}, req.Query["fields"])
	assert.Equal(t, []string{"token-123"}, req.Query["access_token"])
}

func TestTestPage_SurfacesGraphError(t *testing.T) {
	srv, _ := newGraphStub(t, http.StatusUnauthorized, `{"error":{"message":"Invalid OAuth token"}}`)
	client := newTestFacebookClient(t, srv, "")

	_, err := client.TestPage(context.Background(), "bad", "123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OAuth token")
}
