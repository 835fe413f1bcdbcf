package entities

import "time"

// UserCampaignSession records which campaign brought a sender into the
// conversation. Keyed by sender id; the most recent referral overwrites any
// prior session and sessions never expire.
type UserCampaignSession struct {
	CampaignID    string    `json:"campaignId"`
	CampaignName  string    `json:"campaignName"`
	LinkedProduct string    `json:"linkedProduct,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}
