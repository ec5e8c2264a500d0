package models

// Assignment is the body of an assign call: one sold player, one team, one
// price. It only exists on the wire; the backend folds it into the player.
type Assignment struct {
	PlayerID  string  `json:"playerId"`
	TeamID    string  `json:"teamId"`
	SoldPrice float64 `json:"soldPrice"`
}

// Outcome is the result an operator records for a player in one round.
type Outcome string

const (
	OutcomeSold   Outcome = "SOLD"
	OutcomeUnsold Outcome = "UNSOLD"
)
