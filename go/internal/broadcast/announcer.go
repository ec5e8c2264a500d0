package broadcast

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/models"
)

// Announcer is satisfied by every outlet in this package.
type Announcer interface {
	Announce(ctx context.Context, event models.AuctionEvent) error
}

// LogAnnouncer writes each outcome to the log.
type LogAnnouncer struct{}

func (LogAnnouncer) Announce(ctx context.Context, event models.AuctionEvent) error {
	entry := log.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("serial_no", event.SerialNo).
		Str("player_name", event.PlayerName)
	if event.Type == models.EventPlayerSold {
		entry = entry.Str("team_name", event.TeamName).Float64("sold_price", event.SoldPrice)
	}
	if event.Announcement != "" {
		entry = entry.Str("announcement", event.Announcement)
	}
	entry.Msg("auction outcome")
	return nil
}

// MultiAnnouncer hands each event to every outlet, even after one fails.
type MultiAnnouncer []Announcer

func (m MultiAnnouncer) Announce(ctx context.Context, event models.AuctionEvent) error {
	var errs []error
	for _, a := range m {
		if err := a.Announce(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
