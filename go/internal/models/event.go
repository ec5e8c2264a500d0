package models

import "time"

// EventType identifies an auction outcome event.
type EventType string

const (
	EventPlayerSold   EventType = "player_sold"
	EventPlayerUnsold EventType = "player_unsold"
)

// AuctionEvent is an outcome the operator recorded at the desk. It is pushed
// to display screens and journaled; the backend never sees it.
type AuctionEvent struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	SerialNo     string    `json:"serial_no"`
	PlayerID     string    `json:"player_id"`
	PlayerName   string    `json:"player_name"`
	TeamID       string    `json:"team_id,omitempty"`
	TeamName     string    `json:"team_name,omitempty"`
	SoldPrice    float64   `json:"sold_price,omitempty"`
	Announcement string    `json:"announcement,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Outcome maps the event type to the outcome it records.
func (e AuctionEvent) Outcome() Outcome {
	if e.Type == EventPlayerSold {
		return OutcomeSold
	}
	return OutcomeUnsold
}
