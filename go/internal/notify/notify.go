package notify

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Kind is the severity of a notification
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Notification is a transient operator-facing message.
type Notification struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Sink receives notifications raised by forms and workflows.
type Sink interface {
	Notify(n Notification)
}

// Recorder is an in-memory Sink. The console creates one per request and
// drains it into the session; tests inspect it directly.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Debug().Str("kind", string(n.Kind)).Str("message", n.Message).Msg("notification")
	r.items = append(r.items, n)
}

// All returns a copy of every notification recorded so far.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Drain returns and clears the recorded notifications.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.items
	r.items = nil
	return out
}

func Success(s Sink, message string) {
	s.Notify(Notification{Kind: KindSuccess, Message: message})
}

func Error(s Sink, message string) {
	s.Notify(Notification{Kind: KindError, Message: message})
}

func Info(s Sink, message string) {
	s.Notify(Notification{Kind: KindInfo, Message: message})
}
