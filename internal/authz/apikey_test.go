package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGuard_Allow(t *testing.T) {
	g := NewGuard("s3cret")
	if !g.Allow("s3cret") {
		t.Error("correct key should be allowed")
	}
	if g.Allow("wrong") {
		t.Error("wrong key should be rejected")
	}
	if g.Allow("") {
		t.Error("empty key should be rejected when a key is configured")
	}
}

func TestGuard_Wrap(t *testing.T) {
	g := NewGuard("s3cret")
	handler := g.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/debugz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing header: status = %d, want 401", rec.Code)
	}

	req.Header.Set(HeaderName, "s3cret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("correct header: status = %d, want 200", rec.Code)
	}
}
