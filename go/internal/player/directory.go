package player

import "github.com/mcdev12/tplauction/go/internal/models"

// EmptyListMessage is shown when no player matches the filter.
const EmptyListMessage = "No players found"

// Directory is the loaded all-players listing.
type Directory struct {
	Players      []models.PlayerSummary
	TotalPlayers int
}

// Filter returns the players whose name contains query, case-insensitively.
func (d Directory) Filter(query string) []models.PlayerSummary {
	return models.FilterByName(d.Players, query, func(p models.PlayerSummary) string {
		return p.PlayerName
	})
}

// SoldCount counts players not marked "Yet to be sold".
func (d Directory) SoldCount() int {
	count := 0
	for _, p := range d.Players {
		if p.IsSold() {
			count++
		}
	}
	return count
}

// UnsoldCount counts players still marked as not yet sold.
func (d Directory) UnsoldCount() int {
	return len(d.Players) - d.SoldCount()
}
