package http

import (
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/gin-gonic/gin"

	"pagebot/internal/infrastructure"
	"pagebot/internal/usecases"
)

type Handler struct {
	botService *usecases.BotService
	dashboard  *usecases.DashboardUsecase
	fbClient   *infrastructure.FacebookClient
	aiClient   *infrastructure.OpenAIClient
	logger     *zap.Logger
}

func NewHandler(bot *usecases.BotService, dashboard *usecases.DashboardUsecase, fbClient *infrastructure.FacebookClient, aiClient *infrastructure.OpenAIClient, logger *zap.Logger) *Handler {
	return &Handler{
		botService: bot,
		dashboard:  dashboard,
		fbClient:   fbClient,
		aiClient:   aiClient,
		logger:     logger,
	}
}

func SetupRoutes(r *gin.Engine, bot *usecases.BotService, dashboard *usecases.DashboardUsecase, fbClient *infrastructure.FacebookClient, aiClient *infrastructure.OpenAIClient, logger *zap.Logger) {
	h := NewHandler(bot, dashboard, fbClient, aiClient, logger)

	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(10 << 20)) // 10MB max request size
	r.Use(CORSMiddleware())

	// Platform webhook (public, verified via the handshake token)
	r.GET("/webhook", h.VerifyWebhook)
	r.POST("/webhook", h.ReceiveWebhook)

	// Management API
	api := r.Group("/api")
	api.Use(RateLimitPerClient(rate.Limit(10), 20))
	{
		// Settings
		api.GET("/settings", h.GetAPISettings)
		api.PUT("/settings", h.SaveAPISettings)
		api.POST("/test-facebook", h.TestFacebook)
		api.POST("/test-openai", h.TestOpenAI)

		// AI
		api.GET("/ai/settings", h.GetAISettings)
		api.PUT("/ai/settings", h.SaveAISettings)
		api.POST("/ai/toggle", h.ToggleAI)
		api.GET("/ai/knowledge", h.GetKnowledge)
		api.POST("/ai/knowledge", h.CreateKnowledge)
		api.DELETE("/ai/knowledge/:id", h.DeleteKnowledge)

		// Canned responses
		api.GET("/responses", h.GetResponses)
		api.POST("/responses", h.CreateResponse)
		api.PUT("/responses/:id", h.UpdateResponse)
		api.DELETE("/responses/:id", h.DeleteResponse)

		// Campaigns
		api.GET("/campaigns", h.GetCampaigns)
		api.POST("/campaigns", h.CreateCampaign)
		api.PUT("/campaigns/:id", h.UpdateCampaign)
		api.DELETE("/campaigns/:id", h.DeleteCampaign)

		// Conversations & stats
		api.GET("/conversations", h.GetConversations)
		api.GET("/stats", h.GetStats)
		api.GET("/products", h.GetProducts)
	}
}
