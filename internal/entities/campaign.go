package entities

// CampaignButton is a predefined reply button attached to a campaign. The
// button id travels as the postback/quick-reply payload.
type CampaignButton struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Response string `json:"response"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Campaign is a marketing entry point reachable through a referral deep link.
type Campaign struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Status        string           `json:"status"` // active, paused, completed
	Conversions   int              `json:"conversions"`
	Impressions   int              `json:"impressions"`
	CreatedAt     string           `json:"createdAt"`
	Buttons       []CampaignButton `json:"buttons"`
	RefKey        string           `json:"refKey,omitempty"`
	LinkedProduct string           `json:"linkedProduct,omitempty"`
}
