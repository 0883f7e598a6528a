package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotefeed/internal/platform/config"
)

func serverConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxRequestSize:  1 << 20,
	}
}

// startServer binds srv and runs it in the background. The returned cancel
// stops it; done yields Run's result.
func startServer(t *testing.T, srv *Server) (cancel context.CancelFunc, done <-chan error) {
	t.Helper()

	require.NoError(t, srv.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() { errCh <- srv.Run(ctx) }()

	t.Cleanup(cancel)

	return cancel, errCh
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()

	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
		return nil
	}
}

func TestServer_Addr(t *testing.T) {
	tests := []struct {
		name string
		host string
		port int
		want string
	}{
		{name: "loopback", host: "127.0.0.1", port: 8080, want: "127.0.0.1:8080"},
		{name: "all interfaces", host: "0.0.0.0", port: 3000, want: "0.0.0.0:3000"},
		{name: "ipv6 loopback", host: "::1", port: 8080, want: "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := serverConfig()
			cfg.Host, cfg.Port = tt.host, tt.port

			assert.Equal(t, tt.want, New(cfg, discardLogger()).Addr(), "configured address before Listen")
		})
	}
}

func TestServer_ListenReportsBoundPort(t *testing.T) {
	srv := New(serverConfig(), discardLogger())
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	require.NoError(t, srv.Listen())
	t.Cleanup(func() { _ = srv.listener.Close() })

	host, port, err := net.SplitHostPort(srv.Addr())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)
	assert.NotEqual(t, "0", port)

	require.NoError(t, srv.Listen(), "second Listen keeps the first socket")
}

func TestServer_ListenFailsOnTakenPort(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	cfg := serverConfig()
	cfg.Port = taken.Addr().(*net.TCPAddr).Port

	err = New(cfg, discardLogger()).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding quote feed")
}

func TestServer_RunServesUntilCanceled(t *testing.T) {
	srv := New(serverConfig(), discardLogger())
	srv.Engine().GET("/-/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	cancel, done := startServer(t, srv)

	resp, err := http.Get("http://" + srv.Addr() + "/-/live")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	require.NoError(t, waitRun(t, done))

	_, err = http.Get("http://" + srv.Addr() + "/-/live")
	assert.Error(t, err, "listener is closed after shutdown")
}

// TestServer_DrainsInFlightRefresh verifies a refresh still waiting on the
// quote API when shutdown starts gets its response.
func TestServer_DrainsInFlightRefresh(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	srv := New(serverConfig(), discardLogger())
	srv.Engine().POST("/api/v1/quotes/refresh", func(c *gin.Context) {
		close(entered)
		<-release
		c.JSON(http.StatusOK, gin.H{"refreshing": false})
	})

	cancel, done := startServer(t, srv)

	type result struct {
		status int
		err    error
	}
	got := make(chan result, 1)

	go func() {
		resp, err := http.Post("http://"+srv.Addr()+"/api/v1/quotes/refresh", "application/json", http.NoBody)
		if err != nil {
			got <- result{err: err}
			return
		}
		_ = resp.Body.Close()
		got <- result{status: resp.StatusCode}
	}()

	<-entered
	cancel()

	time.Sleep(50 * time.Millisecond)
	close(release)

	r := <-got
	require.NoError(t, r.err)
	assert.Equal(t, http.StatusOK, r.status)
	require.NoError(t, waitRun(t, done))
}

func TestServer_DrainGivesUpAfterShutdownTimeout(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	cfg := serverConfig()
	cfg.ShutdownTimeout = 50 * time.Millisecond

	srv := New(cfg, discardLogger())
	srv.Engine().POST("/api/v1/quotes/refresh", func(c *gin.Context) {
		close(entered)
		<-release
	})

	cancel, done := startServer(t, srv)

	go func() {
		resp, err := http.Post("http://"+srv.Addr()+"/api/v1/quotes/refresh", "application/json", http.NoBody)
		if err == nil {
			_ = resp.Body.Close()
		}
	}()

	<-entered
	cancel()

	err := waitRun(t, done)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "draining quote feed")
}

func TestServer_WarnsWhenWriteTimeoutCutsRefresh(t *testing.T) {
	tests := []struct {
		name         string
		writeTimeout time.Duration
		wantWarning  bool
	}{
		{name: "default", writeTimeout: 60 * time.Second, wantWarning: false},
		{name: "shorter than a refresh", writeTimeout: 10 * time.Second, wantWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := serverConfig()
			cfg.WriteTimeout = tt.writeTimeout

			srv := New(cfg, slog.New(slog.NewJSONHandler(&buf, nil)))
			cancel, done := startServer(t, srv)
			cancel()
			require.NoError(t, waitRun(t, done))

			logs := buf.String()
			assert.Contains(t, logs, "quote feed listening")
			assert.Contains(t, logs, "quote feed stopped")
			assert.Equal(t, tt.wantWarning, strings.Contains(logs, "write timeout is shorter"))
		})
	}
}

func TestServer_MaxRequestSize(t *testing.T) {
	cfg := serverConfig()
	cfg.MaxRequestSize = 100

	srv := New(cfg, discardLogger())
	srv.Engine().POST("/api/v1/quotes/refresh", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"received": len(body)})
	})

	tests := []struct {
		name string
		size int
		want int
	}{
		{name: "under limit", size: 50, want: http.StatusOK},
		{name: "over limit", size: 500, want: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/refresh", strings.NewReader(strings.Repeat("x", tt.size)))

			srv.Engine().ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
