package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/dbconfig"
	"github.com/mcdev12/tplauction/go/internal/journal"
)

// setupJournal connects to the outcome journal. It returns nil when no
// journal database is configured.
func setupJournal(ctx context.Context, cfg dbconfig.Config) (*journal.Repository, error) {
	if !cfg.Enabled() {
		log.Info().Msg("outcome journal disabled")
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	repo, err := journal.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to set up journal: %w", err)
	}
	return repo, nil
}
