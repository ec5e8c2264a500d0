package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/models"
)

// ErrHubFull is returned when the broadcast queue cannot take another event.
var ErrHubFull = errors.New("broadcast queue full")

// Hub manages WebSocket connections from display screens
type Hub struct {
	screens map[*Screen]bool
	mu      sync.RWMutex

	upgrader websocket.Upgrader
	config   HubConfig
	clock    clockwork.Clock

	broadcastCh chan models.AuctionEvent
}

// Screen represents one connected display
type Screen struct {
	ID   string
	Name string
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub

	ConnectedAt time.Time
}

// HubConfig holds configuration for screen connections
type HubConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	QueueSize       int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultHubConfig returns default WebSocket configuration
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		QueueSize:       256,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// NewHub creates a new screen hub
func NewHub(config HubConfig, clock clockwork.Clock) *Hub {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Hub{
		screens: make(map[*Screen]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		clock:       clock,
		broadcastCh: make(chan models.AuctionEvent, config.QueueSize),
	}
}

// Start processes queued events until ctx is done
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("screen hub started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("screen hub shutting down")
			h.closeAll()
			return
		case event := <-h.broadcastCh:
			h.handleBroadcast(event)
		}
	}
}

// Announce queues an event for every connected screen. It never blocks.
func (h *Hub) Announce(ctx context.Context, event models.AuctionEvent) error {
	select {
	case h.broadcastCh <- event:
		return nil
	default:
		log.Warn().Str("event_id", event.ID).Msg("broadcast channel full, dropping message")
		return ErrHubFull
	}
}

// UpgradeConnection upgrades an HTTP connection to WebSocket and registers the screen
func (h *Hub) UpgradeConnection(w http.ResponseWriter, r *http.Request, name string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	screen := &Screen{
		ID:          uuid.New().String(),
		Name:        name,
		Conn:        conn,
		Send:        make(chan []byte, 16),
		Hub:         h,
		ConnectedAt: h.clock.Now(),
	}

	h.register(screen)

	go screen.writePump()
	go screen.readPump()

	log.Info().
		Str("screen_id", screen.ID).
		Str("screen_name", name).
		Msg("screen connected")

	return nil
}

func (h *Hub) register(screen *Screen) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.screens[screen] = true
	log.Debug().
		Str("screen_id", screen.ID).
		Int("total_screens", len(h.screens)).
		Msg("screen registered")
}

func (h *Hub) unregister(screen *Screen) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.screens[screen]; exists {
		delete(h.screens, screen)
		close(screen.Send)

		log.Info().
			Str("screen_id", screen.ID).
			Str("screen_name", screen.Name).
			Msg("screen disconnected")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for screen := range h.screens {
		delete(h.screens, screen)
		close(screen.Send)
	}
}

func (h *Hub) handleBroadcast(event models.AuctionEvent) {
	data, err := json.Marshal(newScreenMessage(event, h.clock.Now()))
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal event for broadcast")
		return
	}

	// Sends happen under the read lock so unregister cannot close a channel mid-send.
	var slow []*Screen
	h.mu.RLock()
	delivered := len(h.screens)
	for screen := range h.screens {
		select {
		case screen.Send <- data:
		default:
			slow = append(slow, screen)
		}
	}
	h.mu.RUnlock()

	for _, screen := range slow {
		log.Warn().
			Str("screen_id", screen.ID).
			Msg("screen send buffer full, closing connection")
		h.unregister(screen)
		screen.Conn.Close()
	}

	log.Debug().
		Str("event_type", string(event.Type)).
		Str("serial_no", event.SerialNo).
		Int("screens", delivered-len(slow)).
		Msg("event broadcasted")
}

// ScreenCount returns the number of connected screens
func (h *Hub) ScreenCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.screens)
}

func (s *Screen) writePump() {
	ticker := time.NewTicker(s.Hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		s.Conn.Close()
		s.Hub.unregister(s)
	}()

	for {
		select {
		case message, ok := <-s.Send:
			s.Conn.SetWriteDeadline(time.Now().Add(s.Hub.config.WriteTimeout))
			if !ok {
				s.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := s.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Error().
					Err(err).
					Str("screen_id", s.ID).
					Msg("failed to write message to WebSocket")
				return
			}

		case <-ticker.C:
			s.Conn.SetWriteDeadline(time.Now().Add(s.Hub.config.WriteTimeout))
			if err := s.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Error().
					Err(err).
					Str("screen_id", s.ID).
					Msg("failed to send ping")
				return
			}
		}
	}
}

func (s *Screen) readPump() {
	defer func() {
		s.Hub.unregister(s)
		s.Conn.Close()
	}()

	s.Conn.SetReadLimit(s.Hub.config.MaxMessageSize)
	s.Conn.SetReadDeadline(time.Now().Add(s.Hub.config.ReadTimeout))
	s.Conn.SetPongHandler(func(string) error {
		s.Conn.SetReadDeadline(time.Now().Add(s.Hub.config.ReadTimeout))
		return nil
	})

	for {
		// Screens only listen; anything they send is discarded.
		if _, _, err := s.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().
					Err(err).
					Str("screen_id", s.ID).
					Msg("unexpected WebSocket close error")
			}
			return
		}
		s.Conn.SetReadDeadline(time.Now().Add(s.Hub.config.ReadTimeout))
	}
}
