package player

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/tplauction/go/clients/auction_backend_client"
	"github.com/mcdev12/tplauction/go/internal/forms"
	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/upload"
)

func newTestApp(t *testing.T, handler http.HandlerFunc) (*App, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := auction_backend_client.NewAuctionBackendClient(srv.URL)
	return NewApp(client, upload.NewMemoryDraftStore(upload.DefaultDraftTTL, nil)), &calls
}

func validForm() AddPlayerForm {
	form := NewAddPlayerForm()
	form.SerialNo = "42"
	form.PlayerName = "Ravi Kumar"
	form.Age = "24"
	form.BasePrice = "100000"
	return form
}

func TestAddPlayerForm_Defaults(t *testing.T) {
	form := NewAddPlayerForm()
	assert.Equal(t, models.RoleAllrounder, form.Role)
	assert.Equal(t, models.WicketKeeperYes, form.WicketKeeper)
}

func TestAddPlayerForm_Validate(t *testing.T) {
	form := NewAddPlayerForm()
	form.PlayerName = "R"
	form.Age = "twenty"
	form.WicketKeeper = "maybe"

	errs := form.Validate()
	assert.Equal(t, "Serial number is required", errs.Get("serialNo"))
	assert.Equal(t, "Player name must be at least 2 characters", errs.Get("playerName"))
	assert.True(t, errs.Has("age"))
	assert.True(t, errs.Has("wicketKeeper"))
	assert.False(t, errs.Has("role"))

	assert.True(t, validForm().Validate().Empty())
}

func TestAddPlayerForm_FieldsSkipBasePrice(t *testing.T) {
	fields := validForm().Fields()

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"serialNo", "playerName", "role", "wicketKeeper", "age"}, names)

	noAge := validForm()
	noAge.Age = ""
	assert.Len(t, noAge.Fields(), 4)
}

func TestAddPlayer_ValidationSendsNothing(t *testing.T) {
	app, calls := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {})
	rec := notify.NewRecorder()

	form := NewAddPlayerForm()
	form.PlayerName = "Ravi"
	got, errs, err := app.AddPlayer(context.Background(), "d1", form, rec)

	assert.ErrorIs(t, err, forms.ErrValidation)
	assert.True(t, errs.Has("serialNo"))
	assert.Equal(t, form, got)
	assert.Empty(t, rec.All())
	assert.Zero(t, atomic.LoadInt32(calls))
}

func TestAddPlayer_SuccessResetsFormAndPicture(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, auction_backend_client.AddPlayerEndpoint, r.URL.Path)
		assert.Equal(t, "42", r.FormValue("serialNo"))
		assert.Equal(t, "Allrounder", r.FormValue("role"))
		assert.Equal(t, "True", r.FormValue("wicketKeeper"))
		assert.Equal(t, "24", r.FormValue("age"))
		assert.Empty(t, r.FormValue("basePrice"))

		file, header, err := r.FormFile("picture")
		if assert.NoError(t, err) {
			defer file.Close()
			assert.Equal(t, "ravi.png", header.Filename)
		}
		w.WriteHeader(http.StatusCreated)
	})

	rec := notify.NewRecorder()
	require.NoError(t, app.SetPicture(ctx, "d1", "ravi.png", "image/png", []byte("png"), rec))

	got, errs, err := app.AddPlayer(ctx, "d1", validForm(), rec)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, NewAddPlayerForm(), got)
	assert.Equal(t, []notify.Notification{{Kind: notify.KindSuccess, Message: "Player added successfully!"}}, rec.All())

	pending, err := app.PendingPicture(ctx, "d1")
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestAddPlayer_BackendErrorKeepsValues(t *testing.T) {
	ctx := context.Background()
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Serial number already exists"}`))
	})

	rec := notify.NewRecorder()
	require.NoError(t, app.SetPicture(ctx, "d1", "ravi.png", "image/png", []byte("png"), rec))

	form := validForm()
	got, _, err := app.AddPlayer(ctx, "d1", form, rec)
	require.Error(t, err)
	assert.Equal(t, form, got)
	assert.Equal(t, []notify.Notification{{Kind: notify.KindError, Message: "Serial number already exists"}}, rec.All())

	pending, err := app.PendingPicture(ctx, "d1")
	require.NoError(t, err)
	assert.NotNil(t, pending)
}

func TestAddPlayer_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	app := NewApp(auction_backend_client.NewAuctionBackendClient(srv.URL), upload.NewMemoryDraftStore(upload.DefaultDraftTTL, nil))
	rec := notify.NewRecorder()

	_, _, err := app.AddPlayer(context.Background(), "d1", validForm(), rec)
	require.Error(t, err)
	assert.Equal(t, []notify.Notification{{Kind: notify.KindError, Message: "An error occurred while adding the player"}}, rec.All())
}

func TestLoadDirectory(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"totalPlayers":3,"data":[
			{"_id":"1","serialNo":1,"playerName":"Virat","soldPrice":300000,"teamName":"Titans"},
			{"_id":"2","serialNo":2,"playerName":"Rohit","soldPrice":"Yet to be sold","teamName":"Unsold"},
			{"_id":"3","serialNo":3,"playerName":"Rahul","soldPrice":"Yet to be sold"}
		]}`))
	})

	view := app.LoadDirectory(context.Background())
	dir, ok := view.Data()
	require.True(t, ok)
	assert.Equal(t, 3, dir.TotalPlayers)
	assert.Equal(t, 1, dir.SoldCount())
	assert.Equal(t, 2, dir.UnsoldCount())
	assert.Len(t, dir.Filter(""), 3)

	filtered := dir.Filter("RAH")
	require.Len(t, filtered, 1)
	assert.Equal(t, "Rahul", filtered[0].PlayerName)
}

func TestLoadDirectory_CountsOnlyMarkerAsUnsold(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"totalPlayers":4,"data":[
			{"_id":"1","serialNo":1,"playerName":"Virat","soldPrice":300000,"teamName":"Titans"},
			{"_id":"2","serialNo":2,"playerName":"Rohit","soldPrice":null,"teamName":"Unsold"},
			{"_id":"3","serialNo":3,"playerName":"Rahul"},
			{"_id":"4","serialNo":4,"playerName":"Gill","soldPrice":"Yet to be sold"}
		]}`))
	})

	dir, ok := app.LoadDirectory(context.Background()).Data()
	require.True(t, ok)
	assert.Equal(t, 3, dir.SoldCount())
	assert.Equal(t, 1, dir.UnsoldCount())
}

func TestLoadDirectory_FailureIsSilent(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	view := app.LoadDirectory(context.Background())
	assert.True(t, view.IsFailed())
	_, ok := view.Data()
	assert.False(t, ok)
}
