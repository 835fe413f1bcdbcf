package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pagebot/internal/entities"
	"pagebot/internal/usecases"
)

// Settings

func (h *Handler) GetAPISettings(c *gin.Context) {
	settings, err := h.dashboard.APISettings(c.Request.Context())
	if err != nil {
		h.fail(c, "fetch settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) SaveAPISettings(c *gin.Context) {
	var settings entities.APISettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := h.dashboard.SaveAPISettings(c.Request.Context(), settings); err != nil {
		h.fail(c, "save settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) TestFacebook(c *gin.Context) {
	var req struct {
		PageAccessToken string `json:"pageAccessToken"`
		PageID          string `json:"pageId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	pageName, err := h.fbClient.TestPage(c.Request.Context(), req.PageAccessToken, req.PageID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pageName": pageName, "pageId": req.PageID})
}

func (h *Handler) TestOpenAI(c *gin.Context) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := h.aiClient.TestKey(c.Request.Context(), req.APIKey); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AI settings & knowledge

func (h *Handler) GetAISettings(c *gin.Context) {
	settings, err := h.dashboard.AISettings(c.Request.Context())
	if err != nil {
		h.fail(c, "fetch ai settings", err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) SaveAISettings(c *gin.Context) {
	var settings entities.AISettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := h.dashboard.SaveAISettings(c.Request.Context(), settings); err != nil {
		h.fail(c, "save ai settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) ToggleAI(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	settings, err := h.dashboard.SetAIEnabled(c.Request.Context(), req.Enabled)
	if err != nil {
		h.fail(c, "toggle ai", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "enabled": settings.Enabled})
}

func (h *Handler) GetKnowledge(c *gin.Context) {
	items, err := h.dashboard.Knowledge(c.Request.Context())
	if err != nil {
		h.fail(c, "fetch knowledge", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CreateKnowledge(c *gin.Context) {
	var item entities.KnowledgeItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !ValidateLength(item.Content, 1, MaxContentLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content length"})
		return
	}
	created, err := h.dashboard.CreateKnowledge(c.Request.Context(), item)
	if err != nil {
		h.fail(c, "create knowledge", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) DeleteKnowledge(c *gin.Context) {
	if err := h.dashboard.DeleteKnowledge(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete knowledge", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Canned responses

func (h *Handler) GetResponses(c *gin.Context) {
	responses, err := h.dashboard.Responses(c.Request.Context())
	if err != nil {
		h.fail(c, "fetch responses", err)
		return
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) CreateResponse(c *gin.Context) {
	var response entities.CannedResponse
	if err := c.ShouldBindJSON(&response); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	response.Trigger = SanitizeString(response.Trigger)
	if !ValidateLength(response.Trigger, 1, MaxTriggerLength) || !ValidateLength(response.Message, 1, MaxContentLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trigger or message length"})
		return
	}
	created, err := h.dashboard.CreateResponse(c.Request.Context(), response)
	if err != nil {
		h.fail(c, "create response", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) UpdateResponse(c *gin.Context) {
	patch, err := c.GetRawData()
	if err != nil || !json.Valid(patch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	updated, err := h.dashboard.UpdateResponse(c.Request.Context(), c.Param("id"), patch)
	if errors.Is(err, usecases.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Response not found"})
		return
	}
	if err != nil {
		h.fail(c, "update response", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteResponse(c *gin.Context) {
	if err := h.dashboard.DeleteResponse(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete response", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Campaigns

func (h *Handler) GetCampaigns(c *gin.Context) {
	campaigns, err := h.dashboard.Campaigns(c.Request.Context())
	if err != nil {
		h.fail(c, "fetch campaigns", err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h *Handler) CreateCampaign(c *gin.Context) {
	var campaign entities.Campaign
	if err := c.ShouldBindJSON(&campaign); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !ValidateLength(campaign.Name, 1, MaxTitleLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid campaign name"})
		return
	}
	created, err := h.dashboard.CreateCampaign(c.Request.Context(), campaign)
	if err != nil {
		h.fail(c, "create campaign", err)
		return
	}
	c.JSON(http.StatusOK, created)
}

func (h *Handler) UpdateCampaign(c *gin.Context) {
	patch, err := c.GetRawData()
	if err != nil || !json.Valid(patch) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	updated, err := h.dashboard.UpdateCampaign(c.Request.Context(), c.Param("id"), patch)
	if errors.Is(err, usecases.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
		return
	}
	if err != nil {
		h.fail(c, "update campaign", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteCampaign(c *gin.Context) {
	if err := h.dashboard.DeleteCampaign(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete campaign", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Conversations & stats

func (h *Handler) GetConversations(c *gin.Context) {
	conversations, err := h.dashboard.Conversations(c.Request.Context())
	if err != nil {
		h.fail(c, "fetch conversations", err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, "fetch stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetProducts(c *gin.Context) {
	products, err := h.dashboard.Products(c.Request.Context())
	if err != nil {
		h.fail(c, "fetch products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.logger.Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
}
