// Command seed_roster loads teams and players from a YAML roster into the
// auction backend through the same forms the console uses.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/tplauction/go/clients/auction_backend_client"
	"github.com/mcdev12/tplauction/go/internal/forms"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/player"
	"github.com/mcdev12/tplauction/go/internal/teams"
	"github.com/mcdev12/tplauction/go/internal/upload"
)

type rosterTeam struct {
	teams.AddTeamForm `yaml:",inline"`
	Logo              string `yaml:"logo"`
}

type rosterPlayer struct {
	player.AddPlayerForm `yaml:",inline"`
	Picture              string `yaml:"picture"`
}

// Roster mirrors the YAML layout
type Roster struct {
	Teams   []rosterTeam   `yaml:"teams"`
	Players []rosterPlayer `yaml:"players"`
}

// Summary counts what happened to each entry.
type Summary struct {
	Total   int
	Added   int
	Invalid int
	Failed  int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d total, %d added, %d invalid, %d errors", s.Total, s.Added, s.Invalid, s.Failed)
}

func main() {
	path := flag.String("roster", "go/internal/assets/roster.yaml", "YAML roster to load")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	roster, err := loadRoster(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	client := auction_backend_client.NewAuctionBackendClient(os.Getenv("BACKEND_URL"))
	drafts := upload.NewMemoryDraftStore(upload.DefaultDraftTTL, nil)
	baseDir := filepath.Dir(*path)
	ctx := context.Background()

	teamSummary := seedTeams(ctx, teams.NewApp(client, drafts, nil), roster.Teams, baseDir)
	playerSummary := seedPlayers(ctx, player.NewApp(client, drafts), roster.Players, baseDir)

	fmt.Printf("Teams seed complete: %s\n", teamSummary)
	fmt.Printf("Players seed complete: %s\n", playerSummary)
}

func loadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("unmarshal roster: %w", err)
	}
	return &roster, nil
}

func seedTeams(ctx context.Context, app *teams.App, entries []rosterTeam, baseDir string) Summary {
	sum := Summary{Total: len(entries)}

	for _, t := range entries {
		sink := notify.NewRecorder()
		draft := uuid.NewString()

		if t.Logo != "" {
			if err := attach(ctx, baseDir, t.Logo, draft, sink, app.SetLogo); err != nil {
				log.Error().Err(err).Str("team_name", t.TeamName).Msg("skipping team with bad logo")
				sum.Failed++
				continue
			}
		}

		_, errs, err := app.AddTeam(ctx, draft, t.AddTeamForm, sink)
		sum.record(t.TeamName, errs, err, sink)
	}
	return sum
}

func seedPlayers(ctx context.Context, app *player.App, entries []rosterPlayer, baseDir string) Summary {
	sum := Summary{Total: len(entries)}

	for _, p := range entries {
		sink := notify.NewRecorder()
		draft := uuid.NewString()

		form := p.AddPlayerForm
		defaults := player.NewAddPlayerForm()
		if form.Role == "" {
			form.Role = defaults.Role
		}
		if form.WicketKeeper == "" {
			form.WicketKeeper = defaults.WicketKeeper
		}

		if p.Picture != "" {
			if err := attach(ctx, baseDir, p.Picture, draft, sink, app.SetPicture); err != nil {
				log.Error().Err(err).Str("serial_no", form.SerialNo).Msg("skipping player with bad picture")
				sum.Failed++
				continue
			}
		}

		_, errs, err := app.AddPlayer(ctx, draft, form, sink)
		sum.record(form.SerialNo+" "+form.PlayerName, errs, err, sink)
	}
	return sum
}

type setImage func(ctx context.Context, draftID, fileName, contentType string, data []byte, sink notify.Sink) error

// attach reads an image relative to the roster file and keeps it pending
// under draft.
func attach(ctx context.Context, baseDir, file, draft string, sink notify.Sink, set setImage) error {
	if !filepath.IsAbs(file) {
		file = filepath.Join(baseDir, file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	return set(ctx, draft, filepath.Base(file), "", data, sink)
}

func (s *Summary) record(name string, errs forms.FieldErrors, err error, sink *notify.Recorder) {
	switch {
	case err == nil:
		s.Added++
		log.Info().Str("entry", name).Msg("added")
	case errors.Is(err, forms.ErrValidation):
		s.Invalid++
		for _, field := range errs.Fields() {
			log.Warn().Str("entry", name).Str("field", field).Msg(errs.Get(field))
		}
	default:
		s.Failed++
		for _, n := range sink.Drain() {
			if n.Kind == notify.KindError {
				log.Error().Err(err).Str("entry", name).Msg(n.Message)
			}
		}
	}
}
