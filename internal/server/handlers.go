package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/wall"
)

// visibleResponse is the wire shape of a visibility query result.
type visibleResponse struct {
	Viewport   wall.Viewport    `json:"viewport"`
	Count      int              `json:"count"`
	Placements []wall.Placement `json:"placements"`
}

// errorResponse is the wire shape of a failed request.
type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"images": len(s.layout.Images()),
	})
}

// handleVisible answers GET /api/v1/visible?x=&y=&w=&h=.
func (s *Server) handleVisible(w http.ResponseWriter, r *http.Request) {
	vp, err := parseViewport(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	placements, err := s.layout.Visible(vp)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if placements == nil {
		placements = []wall.Placement{}
	}

	writeJSON(w, http.StatusOK, visibleResponse{
		Viewport:   vp,
		Count:      len(placements),
		Placements: placements,
	})
}

// handleLayout answers GET /api/v1/layout with the full layout document.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.doc)
}

// parseViewport reads the query parameters of a visibility request.
// All four parameters are required.
func parseViewport(r *http.Request) (wall.Viewport, error) {
	q := r.URL.Query()
	var vp wall.Viewport
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"x", &vp.X},
		{"y", &vp.Y},
		{"w", &vp.Width},
		{"h", &vp.Height},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			return wall.Viewport{}, errors.New(errors.ErrCodeInvalidViewport,
				"missing query parameter %q", p.name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return wall.Viewport{}, errors.New(errors.ErrCodeInvalidViewport,
				"query parameter %q is not a number: %q", p.name, raw)
		}
		*p.dst = v
	}
	return vp, vp.Validate()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP statuses. Validation
// codes become 400s, not-found codes 404s, everything else a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case strings.HasPrefix(string(code), "INVALID_"):
		status = http.StatusBadRequest
	case code == errors.ErrCodeNotFound,
		code == errors.ErrCodeFileNotFound,
		code == errors.ErrCodeLayoutNotFound:
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		log.FromContext(r.Context()).Error("request failed", "error", err)
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}
