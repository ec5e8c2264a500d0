package upload

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/notify"
)

// Pending manages the one pending image of a single form kind.
type Pending struct {
	store DraftStore
	form  string
}

func NewPending(store DraftStore, form string) *Pending {
	return &Pending{store: store, form: form}
}

// Set validates and stores a picked file. A rejected file raises exactly one
// notification and leaves any previously pending image in place.
func (p *Pending) Set(ctx context.Context, draftID, fileName, contentType string, data []byte, sink notify.Sink) (*Image, error) {
	img, err := NewImage(fileName, contentType, data)
	if err != nil {
		notify.Error(sink, err.Error())
		return nil, err
	}

	if err := p.store.Put(ctx, DraftKey(draftID, p.form), img); err != nil {
		return nil, fmt.Errorf("failed to store pending %s image: %w", p.form, err)
	}
	return img, nil
}

// Get returns the pending image, or nil.
func (p *Pending) Get(ctx context.Context, draftID string) (*Image, error) {
	img, err := p.store.Get(ctx, DraftKey(draftID, p.form))
	if err != nil {
		return nil, fmt.Errorf("failed to load pending %s image: %w", p.form, err)
	}
	return img, nil
}

// Clear drops the pending image and its preview. Failures are logged only.
func (p *Pending) Clear(ctx context.Context, draftID string) {
	if err := p.store.Delete(ctx, DraftKey(draftID, p.form)); err != nil {
		log.Warn().Err(err).Str("form", p.form).Msg("failed to clear pending image")
	}
}

// IsRejection reports whether err is one of the image acceptance errors.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNotImage) || errors.Is(err, ErrTooLarge)
}
