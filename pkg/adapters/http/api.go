package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/folio/internal/presentation/graph"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/form"
	"github.com/aretw0/folio/pkg/page"
	"github.com/aretw0/folio/pkg/validation"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// FormView is the JSON representation of a visitor form.
type FormView struct {
	SessionID string                 `json:"session_id"`
	State     domain.SubmissionState `json:"state"`
	Fields    []domain.Field         `json:"fields"`
	Message   domain.FormMessage     `json:"message"`
	Control   domain.SubmitControl   `json:"control"`
	Counter   page.Counter           `json:"counter"`
}

// NewFormView derives the view of f, including the message counter.
func NewFormView(f *domain.Form) FormView {
	return FormView{
		SessionID: f.SessionID,
		State:     f.State,
		Fields:    f.Fields,
		Message:   f.Message,
		Control:   f.Control(),
		Counter:   page.CharCounter(f.Value(domain.FieldMessage)),
	}
}

// Field returns the field with the given id, or a zero field.
func (v FormView) Field(id string) domain.Field {
	for _, f := range v.Fields {
		if string(f.ID) == id {
			return f
		}
	}
	return domain.Field{ID: domain.FieldID(id)}
}

func (s *Server) handleGetForm(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSession(w, r)
	f, err := s.forms.Current(r.Context(), sid)
	if err != nil {
		s.logger.Error("Failed to load form", "session_id", sid, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load form")
		return
	}
	writeJSON(w, http.StatusOK, NewFormView(f))
}

func (s *Server) handleFormEvent(w http.ResponseWriter, r *http.Request) {
	sid := s.ensureSession(w, r)

	var ev domain.Event
	if err := decodeJSON(r, &ev); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := s.forms.Dispatch(r.Context(), sid, ev)
	if err != nil {
		status := eventErrorStatus(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("Failed to apply form event", "session_id", sid, "type", ev.Type, "err", err)
			writeError(w, status, "failed to apply event")
			return
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, NewFormView(f))
}

func eventErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrUnknownEvent),
		errors.Is(err, validation.ErrInputTooLarge),
		errors.Is(err, validation.ErrInvalidUTF8):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleFormGraph(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.Overlay
	if sid := sessionFromRequest(r); sid != "" {
		if f, err := s.forms.Current(r.Context(), sid); err == nil {
			overlay = &graph.Overlay{Current: f.State}
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(form.Transitions(), overlay))
}

// contactRequest mirrors the ContactRequest schema.
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// handleContactAPI delivers a message without a form session: the body is
// checked against the schema, then against the same field rules as the page.
func (s *Server) handleContactAPI(w http.ResponseWriter, r *http.Request) {
	var raw any
	if err := decodeJSON(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	schemaErrs, err := validateBody("ContactRequest", raw)
	if err != nil {
		s.logger.Error("Schema validation unavailable", "err", err)
		writeError(w, http.StatusInternalServerError, "schema unavailable")
		return
	}
	if len(schemaErrs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": schemaErrs})
		return
	}

	// The schema guarantees four string properties and nothing else.
	data, _ := json.Marshal(raw)
	var req contactRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sid := sessionFromRequest(r)
	if sid == "" {
		sid = "api"
	}
	_, err = s.forms.Controller().Send(r.Context(), sid, map[domain.FieldID]string{
		domain.FieldName:    req.Name,
		domain.FieldEmail:   req.Email,
		domain.FieldSubject: req.Subject,
		domain.FieldMessage: req.Message,
	})
	var fieldErrs form.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		errs := make(map[string]string, len(fieldErrs))
		for id, msg := range fieldErrs {
			errs[string(id)] = msg
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
	case err != nil:
		writeError(w, http.StatusBadGateway, domain.MsgSubmitFailure)
	default:
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status":  "accepted",
			"message": domain.MsgSubmitSuccess,
		})
	}
}

func (s *Server) handleSocialClick(w http.ResponseWriter, r *http.Request) {
	var raw any
	if err := decodeJSON(r, &raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs, err := validateBody("SocialClick", raw); err != nil || len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "platform is required")
		return
	}
	label, _ := raw.(map[string]any)["platform"].(string)
	platform := page.SocialPlatform(label)
	if s.metrics != nil {
		s.metrics.SocialClick(platform)
	}
	s.logger.Info("Social link clicked", "platform", platform)
	w.WriteHeader(http.StatusNoContent)
}

// handleEvents streams server sent events. Every client receives content
// reloads; a client that names its own session also receives form diffs.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	topic := globalTopic
	if q := r.URL.Query().Get("session_id"); q != "" {
		if q != sessionFromRequest(r) {
			writeError(w, http.StatusForbidden, "session does not match cookie")
			return
		}
		topic = q
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	global, unsubGlobal := s.Streams.Subscribe(globalTopic)
	defer unsubGlobal()
	var scoped <-chan string
	if topic != globalTopic {
		ch, unsub := s.Streams.Subscribe(topic)
		defer unsub()
		scoped = ch
	}

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-global:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: %s\n\n", msg)
			flusher.Flush()
		case msg, ok := <-scoped:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: form\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("Health check failed", "check", name, "err", err)
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}
	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]string{"version": s.version}
	if doc, err := GetSwagger(); err == nil && doc.Info != nil {
		info["api_version"] = doc.Info.Version
	}
	for k, v := range s.info {
		info[k] = v
	}
	writeJSON(w, http.StatusOK, info)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
