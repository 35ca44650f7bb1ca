package http

import (
	"net/http"
	"strings"

	"pftracker/internal/tracker"
)

// Limits on free-text fields, in runes.
const (
	maxCategoryLen = 60
	maxNoteLen     = 200
	maxFormBytes   = 16 << 10
)

// sanitizeInput drops control characters (except tab and newlines), trims
// whitespace and caps the length at max runes.
func sanitizeInput(s string, max int) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if max > 0 {
		if runes := []rune(s); len(runes) > max {
			s = strings.TrimSpace(string(runes[:max]))
		}
	}
	return s
}

// parseNewTransaction reads the entry form. Validation is left to the tracker.
func parseNewTransaction(w http.ResponseWriter, r *http.Request) (tracker.NewTransaction, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return tracker.NewTransaction{}, err
	}
	return tracker.NewTransaction{
		Type:     strings.TrimSpace(r.PostForm.Get("type")),
		Category: sanitizeInput(r.PostForm.Get("category"), maxCategoryLen),
		Amount:   strings.TrimSpace(r.PostForm.Get("amount")),
		Date:     strings.TrimSpace(r.PostForm.Get("date")),
		Note:     sanitizeInput(r.PostForm.Get("note"), maxNoteLen),
	}, nil
}

// confirmedBy returns a ConfirmFunc answering yes only when the client
// explicitly sent confirm=yes.
func confirmedBy(r *http.Request) tracker.ConfirmFunc {
	return func(string) bool {
		return strings.EqualFold(strings.TrimSpace(r.PostFormValue("confirm")), "yes")
	}
}
