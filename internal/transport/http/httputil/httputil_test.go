package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cwrk-planet/practice-service/internal/errs"
	"github.com/cwrk-planet/practice-service/internal/logger"
)

func TestError_MapsKindsAndHidesInternals(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{errs.Invalid("bad thing"), http.StatusBadRequest, "bad thing"},
		{errs.Forbidden("nope"), http.StatusForbidden, "nope"},
		{errs.NotFound("gone"), http.StatusNotFound, "gone"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(context.Background(), rec, "test", tc.err)

		if rec.Code != tc.status {
			t.Fatalf("%v: status = %d, want %d", tc.err, rec.Code, tc.status)
		}
		var body ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body.Error != tc.msg {
			t.Fatalf("%v: message = %q, want %q", tc.err, body.Error, tc.msg)
		}
	}
}

func TestMiddlewareRequestID(t *testing.T) {
	var seen string
	h := MiddlewareRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	h.ServeHTTP(rec, req)
	if seen != "abc" || rec.Header().Get(HeaderRequestID) != "abc" {
		t.Fatalf("incoming id must be propagated, got %q", seen)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get(HeaderRequestID) != seen {
		t.Fatalf("id must be generated, got %q", seen)
	}
}

func TestStatusWriter_DefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &StatusWriter{ResponseWriter: rec}
	_, _ = sw.Write([]byte("ok"))
	if sw.Status != http.StatusOK || sw.Bytes != 2 {
		t.Fatalf("status=%d bytes=%d", sw.Status, sw.Bytes)
	}
}
