package server

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/shared"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("rejects beyond burst", func(t *testing.T) {
		h := RateLimit(0.001, 2)(okHandler())

		codes := make([]int, 3)
		for i := range codes {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			codes[i] = rec.Code
		}

		if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent {
			t.Errorf("burst should pass, got %v", codes)
		}
		if codes[2] != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", codes[2])
		}
	})

	t.Run("disabled", func(t *testing.T) {
		h := RateLimit(0, 0)(okHandler())
		for range 50 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			if rec.Code != http.StatusNoContent {
				t.Fatalf("expected no limiting, got %d", rec.Code)
			}
		}
	})
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	h := Recover(log.New(&buf))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(buf.String(), "boom") {
		t.Error("expected panic to be logged")
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	h := RequestID()(Logging(log.New(&buf))(okHandler()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/things/1", nil))

	out := buf.String()
	for _, want := range []string{"DELETE", "/things/1", "204"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestBasicRouter(t *testing.T) {
	r := NewBasicRouter()
	var order []string
	for _, name := range []string{"first", "second"} {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		})
	}
	r.Handle(http.MethodGet, "/items/{id}", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeMessage(w, http.StatusOK, req.PathValue("id"))
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))

	if !strings.Contains(rec.Body.String(), `"message":"42"`) {
		t.Errorf("expected path value in body, got %s", rec.Body.String())
	}
	if strings.Join(order, ",") != "first,second" {
		t.Errorf("middleware ran out of order: %v", order)
	}
}

func TestTokenIssuer(t *testing.T) {
	account := models.NewAccount(1, "Ann", "ann@x.com", "hash")
	account.SetID("acct-1")

	issuer := NewTokenIssuer("secret", time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue(account)
	if err != nil {
		t.Fatalf("failed to issue: %v", err)
	}

	claims, err := issuer.Parse(token)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if claims.Subject != "acct-1" || claims.Role != "user" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	t.Run("expired", func(t *testing.T) {
		now = now.Add(2 * time.Minute)
		defer func() { now = now.Add(-2 * time.Minute) }()
		if _, err := issuer.Parse(token); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("other", time.Minute)
		other.now = issuer.now
		if _, err := other.Parse(token); err == nil {
			t.Error("expected signature failure")
		}
	})
}

func TestBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := bearer(req); err == nil {
		t.Error("expected error without header")
	}

	req.Header.Set("Authorization", "bearer abc")
	tok, err := bearer(req)
	if err != nil || tok != "abc" {
		t.Errorf("expected abc, got %q %v", tok, err)
	}

	req.Header.Set("Authorization", "Basic abc")
	if _, err := bearer(req); err == nil {
		t.Error("expected error for basic scheme")
	}
}
