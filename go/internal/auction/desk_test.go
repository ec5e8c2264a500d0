package auction

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/tplauction/go/clients/auction_backend_client"
	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/viewstate"
)

const (
	playerJSON = `{"data":{"_id":"p1","serialNo":42,"playerName":"A Kumar","role":"Batsman","wicketKeeper":"False","basePrice":100000}}`
	teamsJSON  = `{"data":[{"_id":"t1","teamName":"Titans","purseAmount":10000000,"availablePurse":10000000},{"_id":"t2","teamName":"Kings"}]}`
)

type fakeBackend struct {
	t *testing.T

	mu       sync.Mutex
	requests []string
	bodies   []string

	assignStatus int
	assignBody   string
	playerStatus int
	teamsStatus  int
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	switch {
	case r.URL.Path == "/api/player/42":
		if f.playerStatus != 0 {
			w.WriteHeader(f.playerStatus)
			return
		}
		_, _ = w.Write([]byte(playerJSON))
	case r.URL.Path == auction_backend_client.AllTeamsEndpoint:
		if f.teamsStatus != 0 {
			w.WriteHeader(f.teamsStatus)
			return
		}
		_, _ = w.Write([]byte(teamsJSON))
	case r.URL.Path == auction_backend_client.AssignPlayerEndpoint:
		if f.assignStatus != 0 {
			w.WriteHeader(f.assignStatus)
		}
		_, _ = w.Write([]byte(f.assignBody))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBackend) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeBackend) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
	f.bodies = nil
}

type recordingAnnouncer struct {
	mu     sync.Mutex
	events []models.AuctionEvent
	err    error
}

func (a *recordingAnnouncer) Announce(ctx context.Context, event models.AuctionEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
	return a.err
}

func (a *recordingAnnouncer) Record(ctx context.Context, event models.AuctionEvent) error {
	return a.Announce(ctx, event)
}

func newLoadedDesk(t *testing.T, backend *fakeBackend, cfg DeskConfig) *Desk {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	desk := NewDesk("42", auction_backend_client.NewAuctionBackendClient(srv.URL), cfg)
	view := desk.Load(context.Background())
	require.True(t, view.IsReady(), view.Reason())
	backend.Reset()
	return desk
}

func TestDeskLoad(t *testing.T) {
	backend := &fakeBackend{t: t}
	srv := httptest.NewServer(backend)
	defer srv.Close()

	desk := NewDesk("42", auction_backend_client.NewAuctionBackendClient(srv.URL), DeskConfig{})
	assert.True(t, desk.Snapshot().View.IsLoading())

	lot, ok := desk.Load(context.Background()).Data()
	require.True(t, ok)
	assert.Equal(t, "p1", lot.Player.ID)
	assert.Len(t, lot.Teams, 2)
	assert.False(t, lot.AlreadySold())
	assert.ElementsMatch(t, []string{"GET /api/player/42", "GET /api/team/all"}, backend.Requests())
}

func TestDeskLoad_Failures(t *testing.T) {
	tests := []struct {
		name    string
		backend *fakeBackend
		reason  string
	}{
		{"player missing", &fakeBackend{playerStatus: http.StatusNotFound}, "Player not found"},
		{"teams failing", &fakeBackend{teamsStatus: http.StatusInternalServerError}, "Failed to fetch teams"},
		{"both failing", &fakeBackend{playerStatus: http.StatusNotFound, teamsStatus: http.StatusInternalServerError}, "Player not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.backend)
			defer srv.Close()

			desk := NewDesk("42", auction_backend_client.NewAuctionBackendClient(srv.URL), DeskConfig{})
			view := desk.Load(context.Background())
			assert.True(t, view.IsFailed())
			assert.Equal(t, tt.reason, view.Reason())
		})
	}
}

func TestAssign_SuccessRefetchesAndStamps(t *testing.T) {
	clock := clockwork.NewFakeClock()
	announcer := &recordingAnnouncer{}
	backend := &fakeBackend{t: t}
	desk := newLoadedDesk(t, backend, DeskConfig{Announcer: announcer, Clock: clock})

	rec := notify.NewRecorder()
	err := desk.Assign(context.Background(), AssignForm{SoldPrice: "500000", TeamID: "t1"}, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST /api/player/assign",
		"GET /api/player/42",
		"GET /api/team/all",
	}, backend.Requests())

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(backend.bodies[0]), &body))
	assert.Equal(t, map[string]any{"playerId": "p1", "teamId": "t1", "soldPrice": 500000.0}, body)

	snap := desk.Snapshot()
	stamp, ok := snap.Stamp()
	require.True(t, ok)
	assert.True(t, stamp.Sold())
	assert.Equal(t, 500000.0, stamp.Price)
	assert.Equal(t, "Titans", stamp.TeamName)
	assert.True(t, stamp.Visible(clock.Now().Add(time.Hour)))

	assert.Equal(t, []notify.Notification{{Kind: notify.KindSuccess, Message: "Player successfully assigned!"}}, rec.All())

	require.Len(t, announcer.events, 1)
	event := announcer.events[0]
	assert.Equal(t, models.EventPlayerSold, event.Type)
	assert.Equal(t, "42", event.SerialNo)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "Congratulations! A Kumar sold for 500,000 rupees to Titans. What an amazing deal!", event.Announcement)
}

func TestAssign_ServerErrorFailsAction(t *testing.T) {
	backend := &fakeBackend{t: t, assignStatus: http.StatusBadRequest, assignBody: `{"message":"Team purse insufficient"}`}
	desk := newLoadedDesk(t, backend, DeskConfig{})

	rec := notify.NewRecorder()
	form := AssignForm{SoldPrice: "500000", TeamID: "t1"}
	err := desk.Assign(context.Background(), form, rec)
	require.Error(t, err)

	assert.Equal(t, []notify.Notification{{Kind: notify.KindError, Message: "Team purse insufficient"}}, rec.All())
	assert.Equal(t, []string{"POST /api/player/assign"}, backend.Requests())

	assert.Equal(t, "Team purse insufficient", FailureReason(err))
	snap := desk.Snapshot()
	assert.Equal(t, "Team purse insufficient", snap.Action.Reason())
	_, ok := snap.Stamp()
	assert.False(t, ok)
}

func TestAssign_ServerErrorWithoutMessage(t *testing.T) {
	backend := &fakeBackend{t: t, assignStatus: http.StatusInternalServerError, assignBody: `{}`}
	desk := newLoadedDesk(t, backend, DeskConfig{})

	rec := notify.NewRecorder()
	err := desk.Assign(context.Background(), AssignForm{SoldPrice: "1", TeamID: "t1"}, rec)
	require.Error(t, err)
	assert.Equal(t, "Failed to assign player", rec.All()[0].Message)
	assert.Equal(t, "Failed to assign player", FailureReason(err))
}

func TestAssign_LocalValidation(t *testing.T) {
	tests := []struct {
		name    string
		form    AssignForm
		message string
	}{
		{"no team", AssignForm{SoldPrice: "500000"}, "Please select a team"},
		{"no price", AssignForm{TeamID: "t1"}, "Please enter a valid sold price"},
		{"zero price", AssignForm{SoldPrice: "0", TeamID: "t1"}, "Please enter a valid sold price"},
		{"negative price", AssignForm{SoldPrice: "-5", TeamID: "t1"}, "Please enter a valid sold price"},
		{"text price", AssignForm{SoldPrice: "lots", TeamID: "t1"}, "Please enter a valid sold price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{t: t}
			desk := newLoadedDesk(t, backend, DeskConfig{})

			rec := notify.NewRecorder()
			err := desk.Assign(context.Background(), tt.form, rec)
			assert.ErrorIs(t, err, ErrInvalidAssign)
			assert.Equal(t, []notify.Notification{{Kind: notify.KindError, Message: tt.message}}, rec.All())
			assert.Empty(t, backend.Requests())
			assert.Empty(t, FailureReason(err))
			assert.Equal(t, viewstate.ActionIdle, desk.Snapshot().Action.Phase())
		})
	}
}

func TestAssign_AnnouncementFailureIsSwallowed(t *testing.T) {
	announcer := &recordingAnnouncer{err: errors.New("speaker unplugged")}
	backend := &fakeBackend{t: t}
	desk := newLoadedDesk(t, backend, DeskConfig{Announcer: announcer, Journal: announcer})

	rec := notify.NewRecorder()
	require.NoError(t, desk.Assign(context.Background(), AssignForm{SoldPrice: "750000", TeamID: "t9"}, rec))

	_, ok := desk.Snapshot().Stamp()
	assert.True(t, ok)
	require.Len(t, announcer.events, 2)
	assert.Equal(t, UnknownTeamName, announcer.events[0].TeamName)
	assert.Equal(t, notify.KindSuccess, rec.All()[0].Kind)
}

func TestMarkUnsold_SendsNothing(t *testing.T) {
	announcer := &recordingAnnouncer{}
	backend := &fakeBackend{t: t}
	desk := newLoadedDesk(t, backend, DeskConfig{Announcer: announcer})

	rec := notify.NewRecorder()
	require.NoError(t, desk.MarkUnsold(context.Background(), rec))

	assert.Empty(t, backend.Requests())
	assert.Equal(t, []notify.Notification{{Kind: notify.KindError, Message: "Player marked as UNSOLD"}}, rec.All())

	stamp, ok := desk.Snapshot().Stamp()
	require.True(t, ok)
	assert.Equal(t, models.OutcomeUnsold, stamp.Outcome)
	require.Len(t, announcer.events, 1)
	assert.Equal(t, models.EventPlayerUnsold, announcer.events[0].Type)
}

func TestNewActionSupersedesStamp(t *testing.T) {
	backend := &fakeBackend{t: t}
	desk := newLoadedDesk(t, backend, DeskConfig{})
	rec := notify.NewRecorder()

	require.NoError(t, desk.Assign(context.Background(), AssignForm{SoldPrice: "500000", TeamID: "t1"}, rec))
	require.NoError(t, desk.MarkUnsold(context.Background(), rec))

	stamp, ok := desk.Snapshot().Stamp()
	require.True(t, ok)
	assert.False(t, stamp.Sold())
}

func TestStampDisplayWindow(t *testing.T) {
	clock := clockwork.NewFakeClock()
	backend := &fakeBackend{t: t}
	desk := newLoadedDesk(t, backend, DeskConfig{Clock: clock, StampDuration: 4 * time.Second})

	require.NoError(t, desk.MarkUnsold(context.Background(), notify.NewRecorder()))
	stamp, _ := desk.Snapshot().Stamp()

	assert.True(t, stamp.Visible(clock.Now()))
	clock.Advance(5 * time.Second)
	assert.False(t, stamp.Visible(clock.Now()))
}

type blockingBackend struct {
	release chan struct{}
	started chan struct{}
}

func (b *blockingBackend) GetPlayer(ctx context.Context, serialNo string) (*models.Player, error) {
	return &models.Player{ID: "p1", SerialNo: serialNo, PlayerName: "A Kumar"}, nil
}

func (b *blockingBackend) ListTeams(ctx context.Context) ([]models.Team, error) {
	return []models.Team{{ID: "t1", TeamName: "Titans"}}, nil
}

func (b *blockingBackend) AssignPlayer(ctx context.Context, assignment models.Assignment) error {
	close(b.started)
	<-b.release
	return nil
}

func TestActionsRejectedWhileSubmitting(t *testing.T) {
	backend := &blockingBackend{release: make(chan struct{}), started: make(chan struct{})}
	desk := NewDesk("42", backend, DeskConfig{})
	require.True(t, desk.Load(context.Background()).IsReady())

	done := make(chan error, 1)
	go func() {
		done <- desk.Assign(context.Background(), AssignForm{SoldPrice: "100", TeamID: "t1"}, notify.NewRecorder())
	}()
	<-backend.started

	assert.True(t, desk.Snapshot().Action.IsSubmitting())
	assert.ErrorIs(t, desk.MarkUnsold(context.Background(), notify.NewRecorder()), ErrSubmitting)
	assert.ErrorIs(t, desk.Assign(context.Background(), AssignForm{SoldPrice: "1", TeamID: "t1"}, notify.NewRecorder()), ErrSubmitting)

	close(backend.release)
	require.NoError(t, <-done)
}

func TestActionsRequireLoadedLot(t *testing.T) {
	desk := NewDesk("42", &blockingBackend{}, DeskConfig{})
	assert.ErrorIs(t, desk.MarkUnsold(context.Background(), notify.NewRecorder()), ErrNotLoaded)
}

func TestRegistryReusesDesk(t *testing.T) {
	reg := NewRegistry(&blockingBackend{}, DeskConfig{})
	assert.Same(t, reg.Desk("42"), reg.Desk("42"))
	assert.NotSame(t, reg.Desk("42"), reg.Desk("43"))
}

type catalogBackend struct {
	blockingBackend
	known map[string]bool
}

func (c *catalogBackend) GetPlayer(ctx context.Context, serialNo string) (*models.Player, error) {
	if !c.known[serialNo] {
		return nil, errors.New("Player not found")
	}
	return &models.Player{ID: "p" + serialNo, SerialNo: serialNo, PlayerName: "A Kumar"}, nil
}

func TestRegistryReleasesFailedLoads(t *testing.T) {
	reg := NewRegistry(&catalogBackend{known: map[string]bool{"42": true}}, DeskConfig{})

	missing := reg.Desk("nope")
	require.True(t, missing.Load(context.Background()).IsFailed())
	reg.Release("nope")

	found := reg.Desk("42")
	require.True(t, found.Load(context.Background()).IsReady())
	reg.Release("42")

	assert.Equal(t, 1, reg.Len())
	assert.Same(t, found, reg.Desk("42"))
}

func TestRegistryKeepsStampedDesk(t *testing.T) {
	reg := NewRegistry(&catalogBackend{known: map[string]bool{"42": true}}, DeskConfig{})

	desk := reg.Desk("42")
	require.True(t, desk.Load(context.Background()).IsReady())
	require.NoError(t, desk.MarkUnsold(context.Background(), notify.NewRecorder()))

	// A later failed reload keeps the stamp, so the desk stays.
	desk.backend = &catalogBackend{}
	require.True(t, desk.Load(context.Background()).IsFailed())
	reg.Release("42")
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryEvictsIdleDesks(t *testing.T) {
	clock := clockwork.NewFakeClock()
	reg := NewRegistry(&blockingBackend{}, DeskConfig{Clock: clock, IdleTTL: 10 * time.Minute})

	old := reg.Desk("41")
	clock.Advance(6 * time.Minute)
	reg.Desk("42")
	clock.Advance(6 * time.Minute)

	reg.Desk("43")
	assert.Equal(t, 2, reg.Len())
	assert.NotSame(t, old, reg.Desk("41"))
}
