package broadcast

import (
	"time"

	"github.com/mcdev12/tplauction/go/internal/models"
)

// ScreenMessage is what a display screen receives over its socket. Speak is
// the text the screen reads out; it is empty for outcomes that are not voiced.
type ScreenMessage struct {
	Type      models.EventType    `json:"type"`
	Event     models.AuctionEvent `json:"event"`
	Speak     string              `json:"speak,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

func newScreenMessage(event models.AuctionEvent, now time.Time) ScreenMessage {
	return ScreenMessage{
		Type:      event.Type,
		Event:     event,
		Speak:     event.Announcement,
		Timestamp: now,
	}
}

// envelope is the JetStream message body.
type envelope struct {
	EventID   string              `json:"eventId"`
	EventType models.EventType    `json:"eventType"`
	SerialNo  string              `json:"serialNo"`
	Timestamp time.Time           `json:"timestamp"`
	Payload   models.AuctionEvent `json:"payload"`
}
