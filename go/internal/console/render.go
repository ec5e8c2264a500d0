package console

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/tplauction/go/internal/auction"
	"github.com/mcdev12/tplauction/go/internal/models"
	"github.com/mcdev12/tplauction/go/internal/notify"
	"github.com/mcdev12/tplauction/go/internal/teams"
)

//go:embed templates/*.html
var templateFS embed.FS

const siteTitle = "TPL AUCTION SEASON 3"

var pageNames = []string{
	"teams",
	"players",
	"add_player",
	"add_team",
	"player_detail",
	"team_detail",
	"outcomes",
	"screen",
}

// page is what the layout renders around every screen.
type page struct {
	Title         string
	SiteTitle     string
	Path          string
	Notifications []notify.Notification
	Data          any
}

func parseTemplates(backendURL string) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"purse":  teams.FormatPurse,
		"rupees": auction.FormatRupees,
		"amount": func(a models.Amount) string {
			if !a.Valid {
				return "N/A"
			}
			return auction.FormatRupees(a.Value)
		},
		"percent": func(v float64) string {
			return fmt.Sprintf("%.0f", v)
		},
		"asset": func(path string) string {
			if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
				return path
			}
			return strings.TrimRight(backendURL, "/") + path
		},
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// render saves the session, then writes the page. The page is executed into
// a buffer first so a template error never leaves half a document behind.
func (c *Console) render(w http.ResponseWriter, r *http.Request, sess *sessions.Session, sink *notify.Recorder, status int, name, title string, data any) {
	tmpl, ok := c.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("unknown template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p := page{
		Title:         title,
		SiteTitle:     siteTitle,
		Path:          r.URL.RequestURI(),
		Notifications: takeNotifications(sess, sink),
		Data:          data,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		log.Error().Err(err).Str("template", name).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	c.save(w, r, sess)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Debug().Err(err).Str("template", name).Msg("failed to write page")
	}
}

// redirect carries the request's notifications over to the next page.
func (c *Console) redirect(w http.ResponseWriter, r *http.Request, sess *sessions.Session, sink *notify.Recorder, target string) {
	keepNotifications(sess, sink)
	c.save(w, r, sess)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
