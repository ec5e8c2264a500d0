package teams

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/tplauction/go/clients/auction_backend_client"
	"github.com/mcdev12/tplauction/go/internal/forms"
	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/upload"
)

func newTestApp(t *testing.T, handler http.HandlerFunc) *App {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := auction_backend_client.NewAuctionBackendClient(srv.URL)
	return NewApp(client, upload.NewMemoryDraftStore(upload.DefaultDraftTTL, nil), nil)
}

func TestFormatPurse(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{10_000_000, "10.0M"},
		{1_000_000, "1.0M"},
		{1_250_000, "1.3M"},
		{999_999, "10L"},
		{500_000, "5L"},
		{250_000, "3L"},
		{0, "0L"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPurse(tt.amount))
		})
	}
}

func TestPurseRemainingPercent(t *testing.T) {
	team := models.Team{PurseAmount: models.NewAmount(1_000_000), AvailablePurse: models.NewAmount(250_000)}
	assert.InDelta(t, 25.0, PurseRemainingPercent(team), 0.001)

	assert.Zero(t, PurseRemainingPercent(models.Team{}))
}

func TestColorForCycles(t *testing.T) {
	assert.Equal(t, DefaultPalette[0], ColorFor(nil, 8))
	assert.Equal(t, "b", ColorFor([]string{"a", "b"}, 3))
}

func TestAddTeamForm(t *testing.T) {
	errs := AddTeamForm{TeamName: "T", OwnerName: "Owner"}.Validate()
	assert.Equal(t, "Team name must be at least 2 characters", errs.Get("teamName"))
	assert.Equal(t, "Purse amount is required", errs.Get("purseAmount"))
	assert.False(t, errs.Has("ownerName"))

	fields := AddTeamForm{TeamName: "Titans", OwnerName: "Asha", PurseAmount: "10000000"}.Fields()
	require.Len(t, fields, 4)
	assert.Equal(t, "availablePurse", fields[3].Name)
	assert.Equal(t, "10000000", fields[3].Value)
}

func TestLoadGrid(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, auction_backend_client.AllTeamsEndpoint, r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[
			{"_id":"t1","teamName":"Titans","purseAmount":10000000,"availablePurse":7500000},
			{"_id":"t2","teamName":"Kings","purseAmount":800000,"availablePurse":800000}
		]}`))
	})

	rec := notify.NewRecorder()
	cards, ok := app.LoadGrid(context.Background(), rec).Data()
	require.True(t, ok)
	require.Len(t, cards, 2)
	assert.Equal(t, "10.0M", cards[0].Purse)
	assert.Equal(t, "7.5M", cards[0].Available)
	assert.InDelta(t, 75.0, cards[0].RemainingPercent, 0.001)
	assert.Equal(t, "8L", cards[1].Purse)
	assert.Equal(t, DefaultPalette[1], cards[1].Color)
	assert.Empty(t, rec.All())
}

func TestLoadGrid_Failure(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	rec := notify.NewRecorder()
	view := app.LoadGrid(context.Background(), rec)
	assert.True(t, view.IsFailed())
	assert.Equal(t, []notify.Notification{{Kind: notify.KindError, Message: "Failed to load teams. Please try again."}}, rec.All())
}

func TestLoadDetail(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/team/t1":
			_, _ = w.Write([]byte(`{"_id":"t1","teamName":"Titans","ownerName":"Asha","purseAmount":10000000,"availablePurse":9500000}`))
		case "/api/team/t1/players":
			_, _ = w.Write([]byte(`[{"_id":"p1","serialNo":42,"playerName":"Ravi","soldPrice":500000,"soldTo":"t1"}]`))
		default:
			http.NotFound(w, r)
		}
	})

	rec := notify.NewRecorder()
	detail, ok := app.LoadDetail(context.Background(), "t1", rec).Data()
	require.True(t, ok)
	assert.Equal(t, "Asha", detail.Team.OwnerName)
	require.Len(t, detail.Players, 1)
	assert.Equal(t, "42", detail.Players[0].SerialNo)
	assert.Empty(t, rec.All())
}

func TestLoadDetail_PlayersFailKeepsTeam(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/team/t1" {
			_, _ = w.Write([]byte(`{"_id":"t1","teamName":"Titans"}`))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := notify.NewRecorder()
	detail, ok := app.LoadDetail(context.Background(), "t1", rec).Data()
	require.True(t, ok)
	assert.Equal(t, "Titans", detail.Team.TeamName)
	assert.Empty(t, detail.Players)
	require.Len(t, rec.All(), 1)
	assert.Equal(t, "Failed to load team details. Please try again.", rec.All()[0].Message)
}

func TestLoadDetail_TeamMissing(t *testing.T) {
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	rec := notify.NewRecorder()
	view := app.LoadDetail(context.Background(), "nope", rec)
	assert.True(t, view.IsFailed())
	assert.Equal(t, ErrTeamNotFound.Error(), view.Reason())
	assert.Len(t, rec.All(), 1)
}

func TestAddTeam(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Titans", r.FormValue("teamName"))
		assert.Equal(t, "5000000", r.FormValue("purseAmount"))
		assert.Equal(t, "5000000", r.FormValue("availablePurse"))
		_, _, err := r.FormFile("logo")
		assert.NoError(t, err)
		w.WriteHeader(http.StatusCreated)
	})

	rec := notify.NewRecorder()
	require.NoError(t, app.SetLogo(ctx, "d1", "logo.png", "image/png", []byte("png"), rec))

	got, _, err := app.AddTeam(ctx, "d1", AddTeamForm{TeamName: "Titans", OwnerName: "Asha", PurseAmount: "5000000"}, rec)
	require.NoError(t, err)
	assert.Equal(t, AddTeamForm{}, got)
	assert.Equal(t, []notify.Notification{{Kind: notify.KindSuccess, Message: "Team added successfully!"}}, rec.All())

	logo, err := app.PendingLogo(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, logo)
}

func TestAddTeam_Failures(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{}`))
	})

	rec := notify.NewRecorder()
	_, errs, err := app.AddTeam(ctx, "d1", AddTeamForm{TeamName: "Titans"}, rec)
	assert.ErrorIs(t, err, forms.ErrValidation)
	assert.True(t, errs.Has("ownerName"))
	assert.Empty(t, rec.All())

	form := AddTeamForm{TeamName: "Titans", OwnerName: "Asha", PurseAmount: "100"}
	got, _, err := app.AddTeam(ctx, "d1", form, rec)
	require.Error(t, err)
	assert.Equal(t, form, got)
	assert.Equal(t, []notify.Notification{{Kind: notify.KindError, Message: "Failed to add team"}}, rec.All())
}
