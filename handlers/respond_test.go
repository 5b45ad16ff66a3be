package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raulgonca/projectsync/errs"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", errs.Validation("bad input"), http.StatusBadRequest, "bad input"},
		{"unauthorized", errs.Unauthorized("invalid credentials"), http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", errs.Forbidden("not yours"), http.StatusForbidden, "not yours"},
		{"not found", errs.NotFound("project not found"), http.StatusNotFound, "project not found"},
		{"conflict", errs.Conflict("already exists"), http.StatusConflict, "already exists"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tc.err)
			if rec.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tc.wantBody)
			}
			// Database internals must never reach the client.
			if strings.Contains(rec.Body.String(), "pq:") {
				t.Error("internal error details leaked into the response")
			}
		})
	}
}

func TestParseID(t *testing.T) {
	if id, err := parseID("42"); err != nil || id != 42 {
		t.Errorf("parseID(42) = %d, %v", id, err)
	}
	for _, raw := range []string{"0", "-1", "abc", ""} {
		if _, err := parseID(raw); err == nil {
			t.Errorf("parseID(%q) should fail", raw)
		}
	}
}
