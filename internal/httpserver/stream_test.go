package httpserver

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/session"
)

type stubRefresher struct {
	token domain.Token
	calls atomic.Int32
}

func (r *stubRefresher) Refresh(context.Context, string) (*domain.Token, error) {
	r.calls.Add(1)
	tok := r.token
	return &tok, nil
}

func tokenExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": time.Now().Add(d).Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// newStreamServer serves the fixture router over real connections, which
// the recorder-based helpers cannot do for event streams.
func newStreamServer(t *testing.T, f *fixture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)
	return srv
}

// openEvents opens /orders/42/events on baseURL and waits for the first
// status event. Cancelling ctx closes the stream.
func openEvents(ctx context.Context, t *testing.T, baseURL, sessionID string) *http.Response {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/orders/42/events", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: sessionID})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("stream status %d", resp.StatusCode)
	}
	r := bufio.NewReader(resp.Body)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			resp.Body.Close()
			t.Fatalf("read stream: %v", err)
		}
		if strings.HasPrefix(line, "event:status") {
			return resp
		}
	}
}

func TestShutdownEndsOpenEventStreams(t *testing.T) {
	f := newFixture(t)
	id := f.signIn(customer)
	f.orders.order = sampleOrder(domain.OrderPreparing)

	srv, err := New("127.0.0.1:0", zerolog.Nop(), f.deps)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	served := make(chan error, 1)
	go func() { served <- srv.Serve(l) }()

	streamCtx, closeStream := context.WithCancel(context.Background())
	defer closeStream()
	resp := openEvents(streamCtx, t, "http://"+l.Addr().String(), id)
	defer resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown with an open stream: %v after %s", err, time.Since(start))
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("serve returned %v", err)
	}
}

func TestOrderEventsSavesRefreshedTokensBeforeStreaming(t *testing.T) {
	refresher := &stubRefresher{token: domain.Token{AccessToken: "fresh", RefreshToken: "refresh-2"}}
	f := newFixture(t, func(d *Deps) {
		d.Sessions = session.NewManager(d.Sessions.Store(), refresher, session.Options{}, zerolog.Nop())
	})
	f.orders.order = sampleOrder(domain.OrderConfirmed)

	id := f.signIn(customer)
	s := f.session(id)
	s.SetTokens(domain.Token{AccessToken: tokenExpiringIn(t, 5*time.Second), RefreshToken: "refresh"})
	if err := f.store.Save(context.Background(), s); err != nil {
		t.Fatalf("save session: %v", err)
	}

	srv := newStreamServer(t, f)
	streamCtx, closeStream := context.WithCancel(context.Background())
	resp := openEvents(streamCtx, t, srv.URL, id)

	if got := f.session(id).AccessToken; got != "fresh" {
		t.Fatalf("refreshed token not stored while streaming, got %q", got)
	}
	if n := refresher.calls.Load(); n != 1 {
		t.Fatalf("expected one refresh, got %d", n)
	}

	if rec := f.do(http.MethodPost, "/signout", id, nil); rec.Code != http.StatusSeeOther {
		t.Fatalf("signout status %d", rec.Code)
	}

	closeStream()
	resp.Body.Close()
	srv.Close()

	if _, err := f.store.Get(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("signed-out session came back after the stream closed: %v", err)
	}
}
