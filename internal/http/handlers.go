package http

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"pftracker/internal/core"
	"pftracker/internal/log"
	"pftracker/internal/tracker"
)

// User-facing messages.
const (
	msgInvalidAmount = "Enter valid amount"
	msgInvalidType   = "Invalid transaction type"
	msgTotalTooLarge = "Amount would push the totals past the supported limit"
	msgBadForm       = "Invalid request format"
	msgNotSaved      = "Changes could not be saved to storage"
	msgRenderFailed  = "Could not render the dashboard"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Today       string
		ClearPrompt string
		Dashboard   any
	}{
		Today:       time.Now().UTC().Format(core.DateLayout),
		ClearPrompt: tracker.ClearAllPrompt,
		Dashboard:   s.formatter.Build(s.tracker.Snapshot()),
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldOperation, log.OpRender, log.FieldError, err)
		http.Error(w, msgRenderFailed, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	body, _, err := s.renderDashboard()
	if err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Dashboard render failed", log.FieldError, err)
		InternalServerError(msgRenderFailed).Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	in, err := parseNewTransaction(w, r)
	if err != nil {
		s.requestLogger(r).WarnContext(r.Context(), "Parse form error", log.FieldError, err)
		BadRequestError(msgBadForm).Write(w)
		return
	}

	_, err = s.tracker.Add(r.Context(), in)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		UnprocessableEntityError(msgInvalidAmount).Write(w)
		return
	case errors.Is(err, core.ErrInvalidType):
		UnprocessableEntityError(msgInvalidType).Write(w)
		return
	case errors.Is(err, core.ErrTotalTooLarge):
		UnprocessableEntityError(msgTotalTooLarge).Write(w)
		return
	}

	s.respondWithDashboard(w, r, err, "Transaction added", true)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.tracker.Delete(r.Context(), r.PathValue("id"))
	s.respondWithDashboard(w, r, err, "", false)
}

func (s *Server) handleClearAll(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		BadRequestError(msgBadForm).Write(w)
		return
	}

	cleared, err := s.tracker.ClearAll(r.Context(), confirmedBy(r))
	msg := ""
	if cleared {
		msg = "All transactions cleared"
	}
	s.respondWithDashboard(w, r, err, msg, false)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		http.NotFound(w, r)
		return
	}
	raw, err := s.exporter.Raw(r.Context())
	if err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Export read failed", log.FieldError, err)
		http.Error(w, "could not read stored transactions", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+s.exporter.Key()+`.json"`)
	_, _ = w.Write([]byte(raw))
}

// respondWithDashboard answers a mutation with a fresh dashboard partial.
// A save failure is reported as a non-blocking warning: the change is kept
// for this session.
func (s *Server) respondWithDashboard(w http.ResponseWriter, r *http.Request, mutErr error, success string, resetForm bool) {
	if mutErr != nil && !tracker.IsSaveError(mutErr) {
		s.requestLogger(r).ErrorContext(r.Context(), "Ledger update failed", log.FieldError, mutErr)
		InternalServerError("Something went wrong").Write(w)
		return
	}

	body, count, err := s.renderDashboard()
	if err != nil {
		s.requestLogger(r).ErrorContext(r.Context(), "Dashboard render failed", log.FieldError, err)
		InternalServerError(msgRenderFailed).Write(w)
		return
	}

	resp := NewHTMXResponse().BodyHTML(body).TriggerLedgerChanged(count)
	if resetForm {
		resp.TriggerFormReset()
	}
	switch {
	case mutErr != nil:
		resp.TriggerWarningNotification(msgNotSaved)
	case success != "":
		resp.TriggerSuccessNotification(success)
	}
	resp.Write(w)
}
