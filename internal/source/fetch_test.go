package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperr "github.com/ironsheep/imagegen-service/internal/errors"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			if ua := r.Header.Get("User-Agent"); ua != "imagegen-test" {
				t.Errorf("User-Agent: got %q", ua)
			}
			_, _ = w.Write([]byte("payload"))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(FetchOptions{UserAgent: "imagegen-test", Timeout: 5 * time.Second}, nil)

	t.Run("ok", func(t *testing.T) {
		body, err := f.Fetch(context.Background(), srv.URL+"/ok")
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if string(body) != "payload" {
			t.Errorf("body: got %q", body)
		}
	})

	t.Run("status error keeps body", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), srv.URL+"/missing")
		if !apperr.IsKind(err, apperr.KindTransport) {
			t.Fatalf("expected transport error, got %v", err)
		}
		var status *StatusError
		if !errors.As(err, &status) {
			t.Fatalf("expected a StatusError in %v", err)
		}
		if status.StatusCode != http.StatusNotFound {
			t.Errorf("status: got %d", status.StatusCode)
		}
		if string(status.Body) != `{"message":"Not Found"}` {
			t.Errorf("body: got %q", status.Body)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/unreachable")
		if !apperr.IsKind(err, apperr.KindTransport) {
			t.Fatalf("expected transport error, got %v", err)
		}
	})
}
