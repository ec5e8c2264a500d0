package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/tplauction/go/internal/models"
)

type stubAnnouncer struct {
	calls int
	err   error
}

func (s *stubAnnouncer) Announce(ctx context.Context, event models.AuctionEvent) error {
	s.calls++
	return s.err
}

func soldEvent() models.AuctionEvent {
	return models.AuctionEvent{
		ID:           "e1",
		Type:         models.EventPlayerSold,
		SerialNo:     "42",
		PlayerName:   "A Kumar",
		TeamName:     "Titans",
		SoldPrice:    500000,
		Announcement: "Congratulations! A Kumar sold for 500,000 rupees to Titans. What an amazing deal!",
	}
}

func TestMultiAnnouncerReachesEveryOutlet(t *testing.T) {
	failing := &stubAnnouncer{err: errors.New("nats down")}
	ok := &stubAnnouncer{}

	err := MultiAnnouncer{LogAnnouncer{}, failing, ok}.Announce(context.Background(), soldEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nats down")
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, ok.calls)

	assert.NoError(t, MultiAnnouncer{LogAnnouncer{}}.Announce(context.Background(), soldEvent()))
}

func TestHubDeliversToScreens(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := clockwork.NewFakeClock()
	hub := NewHub(DefaultHubConfig(), clock)
	go hub.Start(ctx)

	srv := httptest.NewServer(http.HandlerFunc(NewScreenHandler(hub).HandleScreenConnection))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?name=big-screen"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ScreenCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Announce(ctx, soldEvent()))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg ScreenMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, models.EventPlayerSold, msg.Type)
	assert.Equal(t, "42", msg.Event.SerialNo)
	assert.Equal(t, soldEvent().Announcement, msg.Speak)
	assert.True(t, msg.Timestamp.Equal(clock.Now()))
}

func TestHubAnnounceDropsWhenQueueFull(t *testing.T) {
	cfg := DefaultHubConfig()
	cfg.QueueSize = 1
	hub := NewHub(cfg, nil)

	require.NoError(t, hub.Announce(context.Background(), soldEvent()))
	assert.ErrorIs(t, hub.Announce(context.Background(), soldEvent()), ErrHubFull)
}

func TestSubject(t *testing.T) {
	cfg := DefaultJetStreamConfig()
	assert.Equal(t, "auction.events.player_sold", cfg.Subject(models.EventPlayerSold))
	assert.Equal(t, "auction.events.player_unsold", cfg.Subject(models.EventPlayerUnsold))
}

func TestStreamConfigChangesWithSubjects(t *testing.T) {
	p := &JetStreamPublisher{config: DefaultJetStreamConfig()}
	current := p.streamConfig()
	assert.True(t, isStreamConfigEqual(current, p.streamConfig()))

	p.config.SubjectPrefix = "tpl.outcomes"
	wanted := p.streamConfig()
	assert.Equal(t, []string{"tpl.outcomes.>"}, wanted.Subjects)
	assert.False(t, isStreamConfigEqual(current, wanted))

	current.Subjects = append(current.Subjects, "auction.audit.>")
	assert.False(t, isStreamConfigEqual(current, p.streamConfig()))
}

func TestEventConsumerCloseWithoutConnection(t *testing.T) {
	var ec EventConsumer
	assert.NoError(t, ec.Close())
	assert.NoError(t, ec.Close())
}
