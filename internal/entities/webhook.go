package entities

// WebhookPayload is the body of a page webhook delivery:
// {object: "page", entry: [{messaging: [...]}]}.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging"`
}

type Participant struct {
	ID string `json:"id"`
}

// MessagingEvent carries exactly one of Message, Postback or Referral (a
// referral may also ride inside a message). Use Kind to classify instead of
// probing fields.
type MessagingEvent struct {
	Sender    Participant    `json:"sender"`
	Recipient Participant    `json:"recipient"`
	Timestamp int64          `json:"timestamp"`
	Message   *MessageEvent  `json:"message,omitempty"`
	Postback  *PostbackEvent `json:"postback,omitempty"`
	Referral  *ReferralEvent `json:"referral,omitempty"`
}

type MessageEvent struct {
	MID      string         `json:"mid"`
	Text     string         `json:"text"`
	Referral *ReferralEvent `json:"referral,omitempty"`
}

type PostbackEvent struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

type ReferralEvent struct {
	Ref    string `json:"ref"`
	Source string `json:"source,omitempty"`
	Type   string `json:"type,omitempty"`
}

// EventKind is the tagged classification of a messaging event.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventMessage
	EventPostback
	EventReferral
)

// Kind classifies the event. A referral, whether standalone or embedded in a
// message, takes priority so campaign attribution always sees it.
func (e *MessagingEvent) Kind() EventKind {
	switch {
	case e.Referral != nil, e.Message != nil && e.Message.Referral != nil:
		return EventReferral
	case e.Message != nil:
		return EventMessage
	case e.Postback != nil:
		return EventPostback
	default:
		return EventUnknown
	}
}

// ReferralRef returns the referral code carried by the event, standalone or
// embedded, or "" when there is none.
func (e *MessagingEvent) ReferralRef() string {
	if e.Referral != nil {
		return e.Referral.Ref
	}
	if e.Message != nil && e.Message.Referral != nil {
		return e.Message.Referral.Ref
	}
	return ""
}
