package entities

import "time"

// Conversation is the latest-message snapshot for a sender. One record per
// sender id, overwritten on every inbound message; no message history is kept.
type Conversation struct {
	ID           string    `json:"id"` // platform message id of the latest message
	SenderID     string    `json:"senderId"`
	CustomerName string    `json:"customerName"`
	LastMessage  string    `json:"lastMessage"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	CampaignName string    `json:"campaignName,omitempty"`
	Unread       bool      `json:"unread"`
	Status       string    `json:"status"` // active, resolved, pending
}
