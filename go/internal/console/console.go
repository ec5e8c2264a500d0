// Package console serves the operator console: server-rendered pages over
// the remote auction backend.
package console

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/auction"
	"github.com/mcdev12/tplauction/go/internal/broadcast"
	"github.com/mcdev12/tplauction/go/internal/journal"
	"github.com/mcdev12/tplauction/go/internal/player"
	"github.com/mcdev12/tplauction/go/internal/teams"
)

// OutcomeLog lists journaled outcomes for the outcomes page.
type OutcomeLog interface {
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// Deps are the console's collaborators. Screens, Outcomes and Gatherer may
// be nil; the matching routes then report the feature as unavailable.
type Deps struct {
	Players        *player.App
	Teams          *teams.App
	Desks          *auction.Registry
	Gate           auction.Gate
	Screens        *broadcast.ScreenHandler
	Outcomes       OutcomeLog
	Sessions       sessions.Store
	Gatherer       prometheus.Gatherer
	Clock          clockwork.Clock
	BackendURL     string
	AllowedOrigins []string
}

type Console struct {
	players  *player.App
	teams    *teams.App
	desks    *auction.Registry
	gate     auction.Gate
	screens  *broadcast.ScreenHandler
	outcomes OutcomeLog
	store    sessions.Store
	gatherer prometheus.Gatherer
	clock    clockwork.Clock
	origins  []string
	pages    map[string]*template.Template
}

func New(deps Deps) (*Console, error) {
	if deps.Players == nil || deps.Teams == nil || deps.Desks == nil {
		return nil, fmt.Errorf("console requires players, teams and desks")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("console requires a session store")
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"*"}
	}

	pages, err := parseTemplates(deps.BackendURL)
	if err != nil {
		return nil, err
	}

	return &Console{
		players:  deps.Players,
		teams:    deps.Teams,
		desks:    deps.Desks,
		gate:     deps.Gate,
		screens:  deps.Screens,
		outcomes: deps.Outcomes,
		store:    deps.Sessions,
		gatherer: deps.Gatherer,
		clock:    deps.Clock,
		origins:  deps.AllowedOrigins,
		pages:    pages,
	}, nil
}

// Router registers every console route.
func (c *Console) Router() *mux.Router {
	router := mux.NewRouter()

	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	// Ambient
	router.HandleFunc("/health", c.handleHealth).Methods(http.MethodGet)
	if c.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	// Teams
	router.HandleFunc("/", c.handleTeamGrid).Methods(http.MethodGet)
	router.HandleFunc("/team/{teamId}", c.handleTeamDetail).Methods(http.MethodGet)
	router.HandleFunc("/addTeam", c.handleAddTeamForm).Methods(http.MethodGet)
	router.HandleFunc("/addTeam", c.handleAddTeam).Methods(http.MethodPost)
	router.HandleFunc("/addTeam/image", c.handleTeamLogo).Methods(http.MethodPost)
	router.HandleFunc("/addTeam/image/remove", c.handleRemoveTeamLogo).Methods(http.MethodPost)

	// Players
	router.HandleFunc("/players", c.handlePlayers).Methods(http.MethodGet)
	router.HandleFunc("/addPlayer", c.handleAddPlayerForm).Methods(http.MethodGet)
	router.HandleFunc("/addPlayer", c.handleAddPlayer).Methods(http.MethodPost)
	router.HandleFunc("/addPlayer/image", c.handlePlayerPicture).Methods(http.MethodPost)
	router.HandleFunc("/addPlayer/image/remove", c.handleRemovePlayerPicture).Methods(http.MethodPost)

	// Auction desk
	router.HandleFunc("/playerDetails/{serialNo}", c.handlePlayerDetail).Methods(http.MethodGet)
	router.HandleFunc("/playerDetails/{serialNo}/assign", c.handleAssign).Methods(http.MethodPost)
	router.HandleFunc("/playerDetails/{serialNo}/unsold", c.handleUnsold).Methods(http.MethodPost)
	router.HandleFunc("/search", c.handleSearch).Methods(http.MethodGet)
	router.HandleFunc("/passcode", c.handlePasscode).Methods(http.MethodPost)

	// Outcomes and display screens
	router.HandleFunc("/outcomes", c.handleOutcomes).Methods(http.MethodGet)
	router.HandleFunc("/screen", c.handleScreen).Methods(http.MethodGet)
	if c.screens != nil {
		router.HandleFunc("/ws/screen", c.screens.HandleScreenConnection).Methods(http.MethodGet)
		router.HandleFunc("/ws/stats", c.screens.HandleStats).Methods(http.MethodGet)
	}

	return router
}

// Handler wraps the router with CORS.
func (c *Console) Handler() http.Handler {
	crs := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins:   c.origins,
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})
	return crs.Handler(c.Router())
}

func (c *Console) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write health check response")
	}
}
