package http

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/folio/internal/content"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/page"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type pageRenderer struct {
	tmpl *template.Template
}

func newPageRenderer() *pageRenderer {
	funcs := template.FuncMap{
		"lower":    strings.ToLower,
		"platform": page.SocialPlatform,
		"inputs": func() []string {
			return []string{string(domain.FieldName), string(domain.FieldEmail), string(domain.FieldSubject)}
		},
	}
	return &pageRenderer{
		tmpl: template.Must(template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/*.html")),
	}
}

// pageData feeds templates/index.html.
type pageData struct {
	Site    *content.Site
	Form    FormView
	Version string
	Year    int
	WASM    bool
	Script  page.ScriptConfig
}

func (p *pageRenderer) render(data pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSession(w, r)
	f, err := s.forms.Current(r.Context(), sid)
	if err != nil {
		s.logger.Error("Failed to load form", "session_id", sid, "err", err)
		f = domain.NewForm(sid)
	}

	body, err := s.page.render(pageData{
		Site:    s.content.Site(),
		Form:    NewFormView(f),
		Version: s.version,
		Year:    s.now().Year(),
		WASM:    s.wasmAvailable(),
		Script:  page.Script(),
	})
	if err != nil {
		s.logger.Error("Failed to render page", "err", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(body)
}

// handleContactForm is the no-script fallback: it replays the posted values as
// input events, submits, and redirects back to the contact section.
func (s *Server) handleContactForm(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSession(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	for _, f := range domain.ContactFields() {
		ev := domain.Event{Type: domain.EventInput, Field: f.ID, Value: r.PostForm.Get(string(f.ID))}
		if _, err := s.forms.Dispatch(ctx, sid, ev); err != nil {
			s.logger.Warn("Rejected form input", "session_id", sid, "field", f.ID, "err", err)
		}
	}
	if _, err := s.forms.Dispatch(ctx, sid, domain.Event{Type: domain.EventSubmit}); err != nil {
		s.logger.Warn("Form submit rejected", "session_id", sid, "err", err)
	}
	http.Redirect(w, r, "/#contact", http.StatusSeeOther)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// assetsHandler serves the optional on-disk assets directory (the WebAssembly
// client build).
func (s *Server) assetsHandler() http.Handler {
	return http.StripPrefix("/assets/", http.FileServer(http.Dir(s.assetsDir)))
}

func (s *Server) wasmAvailable() bool {
	if s.assetsDir == "" {
		return false
	}
	for _, name := range []string{"folio.wasm", "wasm_exec.js"} {
		if _, err := os.Stat(filepath.Join(s.assetsDir, name)); err != nil {
			return false
		}
	}
	return true
}
