package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/pengingat/internal/profile"
	teststore "github.com/hrygo/pengingat/store/test"
)

func newTestServer(t *testing.T, p *profile.Profile) *Server {
	t.Helper()

	st := teststore.NewTestingStore(context.Background(), t)
	s, err := NewServer(context.Background(), p, st, nil)
	require.NoError(t, err)
	return s
}

func testProfile() *profile.Profile {
	return &profile.Profile{
		Mode:             "dev",
		Addr:             "127.0.0.1",
		Port:             0,
		Driver:           "sqlite",
		Version:          "test",
		Timezone:         "Asia/Jakarta",
		ActivityLabel:    profile.DefaultActivityLabel,
		RateLimit:        profile.DefaultRateLimit,
		RateBurst:        profile.DefaultRateBurst,
		ReminderInterval: 50 * time.Millisecond,
	}
}

func TestServer_Routes(t *testing.T) {
	s := newTestServer(t, testProfile())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/temporal:parse", strings.NewReader(`{"message":"lusa pagi beli susu"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"activity_text":"beli susu"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_RateLimit(t *testing.T) {
	p := testProfile()
	p.RateLimit = 0.001
	p.RateBurst = 1
	s := newTestServer(t, p)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestServer_StartShutdown(t *testing.T) {
	s := newTestServer(t, testProfile())
	require.NoError(t, s.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	url := fmt.Sprintf("http://%s/healthz", s.Addr().String())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && strings.Contains(string(body), `"status":"ok"`)
	}, 5*time.Second, 20*time.Millisecond)
	assert.Eventually(t, s.scheduler.IsRunning, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(15 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.False(t, s.scheduler.IsRunning())
}
