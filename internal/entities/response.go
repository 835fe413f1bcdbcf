package entities

// CannedResponse maps a trigger phrase to a static reply. Matching is a
// case-insensitive substring check against the inbound message text.
type CannedResponse struct {
	ID        string `json:"id"`
	Trigger   string `json:"trigger"`
	Message   string `json:"message"`
	Category  string `json:"category"`
	CreatedAt string `json:"createdAt"`
	ImageURL  string `json:"imageUrl,omitempty"`
}
