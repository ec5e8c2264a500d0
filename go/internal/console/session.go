package console

import (
	"encoding/gob"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/auction"
	"github.com/mcdev12/tplauction/go/internal/notify"
)

const (
	sessionName    = "tplauction"
	draftIDKey     = "draftId"
	assignDraftKey = "assignDraft"
)

// assignDraft is what one operator typed into a desk's assign form before
// the attempt failed. It is shown once, after the redirect.
type assignDraft struct {
	SerialNo string
	Form     auction.AssignForm
}

func init() {
	gob.Register(notify.Notification{})
	gob.Register(assignDraft{})
}

// NewCookieStore builds the operator session store. The secret signs the
// cookie; an encryption key is derived only when the secret is long enough.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	keys := [][]byte{[]byte(secret)}
	if len(secret) >= 32 {
		keys = append(keys, []byte(secret[:32]))
	}

	store := sessions.NewCookieStore(keys...)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   60 * 60 * 12,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (c *Console) session(r *http.Request) *sessions.Session {
	sess, err := c.store.Get(r, sessionName)
	if err != nil {
		// A stale or tampered cookie yields a fresh session.
		log.Warn().Err(err).Msg("discarding unreadable session")
	}
	return sess
}

func (c *Console) save(w http.ResponseWriter, r *http.Request, sess *sessions.Session) {
	if err := sess.Save(r, w); err != nil {
		log.Error().Err(err).Msg("failed to save session")
	}
}

// draftID returns the id pending uploads are stored under, creating one on
// first use.
func draftID(sess *sessions.Session) string {
	if id, ok := sess.Values[draftIDKey].(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	sess.Values[draftIDKey] = id
	return id
}

func passcodeToken(sess *sessions.Session) string {
	token, _ := sess.Values[auction.PasscodeSessionKey].(string)
	return token
}

func keepAssignDraft(sess *sessions.Session, serialNo string, form auction.AssignForm) {
	sess.Values[assignDraftKey] = assignDraft{SerialNo: serialNo, Form: form}
}

func clearAssignDraft(sess *sessions.Session) {
	delete(sess.Values, assignDraftKey)
}

// takeAssignDraft returns and clears the draft left for serialNo. A draft
// for another player is left alone.
func takeAssignDraft(sess *sessions.Session, serialNo string) auction.AssignForm {
	draft, ok := sess.Values[assignDraftKey].(assignDraft)
	if !ok || draft.SerialNo != serialNo {
		return auction.AssignForm{}
	}
	clearAssignDraft(sess)
	return draft.Form
}

// keepNotifications moves what the request raised into the session so it
// survives a redirect.
func keepNotifications(sess *sessions.Session, sink *notify.Recorder) {
	for _, n := range sink.Drain() {
		sess.AddFlash(n)
	}
}

// takeNotifications pops the flashes left by the previous request and
// appends what this request raised.
func takeNotifications(sess *sessions.Session, sink *notify.Recorder) []notify.Notification {
	var out []notify.Notification
	for _, f := range sess.Flashes() {
		if n, ok := f.(notify.Notification); ok {
			out = append(out, n)
		}
	}
	return append(out, sink.Drain()...)
}

// localPath keeps redirects on this host.
func localPath(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
