package entities

// KnowledgeItem is a curated fact used to ground AI replies. Items carrying a
// product name can be scoped to users who arrived through a campaign linked to
// that product.
type KnowledgeItem struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt"`
	ProductName string `json:"productName,omitempty"`
}
