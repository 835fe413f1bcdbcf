package entities

// APISettings holds credentials for outbound platform calls. Read fresh from
// the store on every use, never cached.
type APISettings struct {
	FacebookPageAccessToken string `json:"facebookPageAccessToken"`
	FacebookPageID          string `json:"facebookPageId"`
	FacebookVerifyToken     string `json:"facebookVerifyToken"`
	OpenAIAPIKey            string `json:"openaiApiKey"`
}

// AISettings controls the AI reply path. AllowedTopics/RestrictedTopics are
// stored and editable but not consulted by the resolver.
type AISettings struct {
	Enabled          bool     `json:"enabled"`
	Model            string   `json:"model"`
	Temperature      float64  `json:"temperature"`
	AllowedTopics    []string `json:"allowedTopics"`
	RestrictedTopics []string `json:"restrictedTopics"`
}

// DefaultAISettings returns the settings served when none are stored yet.
func DefaultAISettings() AISettings {
	return AISettings{
		Enabled:          true,
		Model:            "gpt-4",
		Temperature:      0.7,
		AllowedTopics:    []string{},
		RestrictedTopics: []string{},
	}
}
