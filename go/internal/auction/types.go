package auction

import (
	"time"

	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/viewstate"
)

// Lot is what the player-detail screen shows: the player under the hammer
// and every team that could buy him.
type Lot struct {
	Player models.Player
	Teams  []models.Team
}

// AlreadySold drives the advisory banner. It never blocks an assignment.
func (l Lot) AlreadySold() bool {
	return l.Player.IsSold()
}

// AssignForm is the price and team the operator entered.
type AssignForm struct {
	SoldPrice string
	TeamID    string
}

// Stamp is the overlay confirming the last outcome.
type Stamp struct {
	Outcome  models.Outcome
	Price    float64
	TeamID   string
	TeamName string
	At       time.Time
	Until    time.Time
}

// Visible reports whether the overlay is still shown at now. A stamp without
// a display window stays until the next action replaces it.
func (s Stamp) Visible(now time.Time) bool {
	if s.Until.IsZero() {
		return true
	}
	return now.Before(s.Until)
}

func (s Stamp) Sold() bool {
	return s.Outcome == models.OutcomeSold
}

// Snapshot is a consistent copy of a desk's state for rendering.
type Snapshot struct {
	SerialNo string
	View     viewstate.View[Lot]
	Action   viewstate.Action[Stamp]
}

// Stamp returns the current stamp when the last action succeeded.
func (s Snapshot) Stamp() (Stamp, bool) {
	return s.Action.Outcome()
}
