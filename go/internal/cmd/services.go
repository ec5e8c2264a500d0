package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/clients"
	"github.com/mcdev12/tplauction/go/clients/auction_backend_client"
	"github.com/mcdev12/tplauction/go/internal/auction"
	"github.com/mcdev12/tplauction/go/internal/broadcast"
	"github.com/mcdev12/tplauction/go/internal/config"
	"github.com/mcdev12/tplauction/go/internal/console"
	"github.com/mcdev12/tplauction/go/internal/player"
	"github.com/mcdev12/tplauction/go/internal/teams"
	"github.com/mcdev12/tplauction/go/internal/upload"
)

// Services is everything main starts and stops.
type Services struct {
	Console  *console.Console
	Hub      *broadcast.Hub
	Consumer *broadcast.EventConsumer
	closers  []io.Closer
}

// Close releases connections in reverse order of creation.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close resource")
		}
	}
}

func (s *Services) setConsumer(consumer *broadcast.EventConsumer) {
	s.Consumer = consumer
	s.closers = append(s.closers, consumer)
}

func setupServices(ctx context.Context, cfg config.Config) (*Services, error) {
	// Wire up dependency injection chain
	// Backend client → App layer → Desk registry → Console
	svc := &Services{}
	clock := clockwork.NewRealClock()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := clients.NewPrometheusMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	backend := auction_backend_client.NewAuctionBackendClient(cfg.BackendURL)
	backend.SetMetrics(metrics)
	backend.SetTimeout(cfg.BackendTimeout)

	// Pending uploads
	var drafts upload.DraftStore = upload.NewMemoryDraftStore(upload.DefaultDraftTTL, clock)
	if cfg.RedisURL != "" {
		redisDrafts, err := upload.NewRedisDraftStore(cfg.RedisURL, upload.DefaultDraftTTL)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.closers = append(svc.closers, redisDrafts)
		drafts = redisDrafts
		log.Info().Msg("pending uploads stored in redis")
	}

	// Announcements
	hub := broadcast.NewHub(broadcast.DefaultHubConfig(), clock)
	svc.Hub = hub
	announcers := broadcast.MultiAnnouncer{broadcast.LogAnnouncer{}}

	if cfg.NATSURL != "" {
		jsCfg := broadcast.DefaultJetStreamConfig()
		jsCfg.URL = cfg.NATSURL

		publisher, err := broadcast.NewJetStreamPublisher(ctx, jsCfg)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.closers = append(svc.closers, publisher)
		announcers = append(announcers, publisher)

		consumer, err := broadcast.NewEventConsumer(hub, jsCfg)
		if err != nil {
			svc.Close()
			return nil, err
		}
		svc.setConsumer(consumer)
	} else {
		// Without NATS the hub is fed directly.
		announcers = append(announcers, hub)
	}

	// Journal
	repo, err := setupJournal(ctx, cfg.Journal)
	if err != nil {
		svc.Close()
		return nil, err
	}
	var outcomes console.OutcomeLog
	var deskJournal auction.Journal
	if repo != nil {
		svc.closers = append(svc.closers, repo)
		outcomes = repo
		deskJournal = repo
	}

	// Apps
	playerApp := player.NewApp(backend, drafts)
	teamsApp := teams.NewApp(backend, drafts, cfg.TeamPalette)
	desks := auction.NewRegistry(backend, auction.DeskConfig{
		Announcer:     announcers,
		Journal:       deskJournal,
		Clock:         clock,
		StampDuration: cfg.StampDuration,
	})

	c, err := console.New(console.Deps{
		Players:        playerApp,
		Teams:          teamsApp,
		Desks:          desks,
		Gate:           auction.NewGate(cfg.Passcode),
		Screens:        broadcast.NewScreenHandler(hub),
		Outcomes:       outcomes,
		Sessions:       console.NewCookieStore(cfg.SessionSecret, false),
		Gatherer:       registry,
		Clock:          clock,
		BackendURL:     cfg.BackendURL,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		svc.Close()
		return nil, err
	}
	svc.Console = c

	return svc, nil
}
