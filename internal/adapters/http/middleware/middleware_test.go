package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotefeed/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefeed/internal/platform/logging"
)

const uuidPattern = `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`

func init() {
	gin.SetMode(gin.TestMode)
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestIDMiddleware(t *testing.T) {
	t.Parallel()

	kinds := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromCtx    func(*gin.Context) string
	}{
		{
			name:       "request ID",
			middleware: RequestID(),
			header:     HeaderRequestID,
			fromCtx:    func(c *gin.Context) string { return UpstreamIDsFromContext(c.Request.Context()).RequestID },
		},
		{
			name:       "correlation ID",
			middleware: CorrelationID(),
			header:     HeaderCorrelationID,
			fromCtx:    func(c *gin.Context) string { return UpstreamIDsFromContext(c.Request.Context()).CorrelationID },
		},
	}

	cases := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{name: "generates UUID when no header present", incoming: "", wantSame: false},
		{name: "passes through well-formed header", incoming: "refresh-7f3a", wantSame: true},
		{name: "replaces header with spaces", incoming: "two words", wantSame: false},
		{name: "replaces oversized header", incoming: strings.Repeat("a", maxIDLength+1), wantSame: false},
		{name: "replaces header with control characters", incoming: "id\x00x", wantSame: false},
	}

	for _, kind := range kinds {
		for _, tt := range cases {
			t.Run(kind.name+"/"+tt.name, func(t *testing.T) {
				t.Parallel()

				var ctxID string

				router := gin.New()
				router.Use(kind.middleware)
				router.GET("/test", func(c *gin.Context) {
					ctxID = kind.fromCtx(c)
					c.Status(http.StatusOK)
				})

				w := httptest.NewRecorder()
				req := httptest.NewRequest(http.MethodGet, "/test", nil)
				if tt.incoming != "" {
					req.Header.Set(kind.header, tt.incoming)
				}

				router.ServeHTTP(w, req)

				require.Equal(t, http.StatusOK, w.Code)
				echoed := w.Header().Get(kind.header)
				assert.Equal(t, echoed, ctxID, "ID must reach context.Context for the quote client")

				if tt.wantSame {
					assert.Equal(t, tt.incoming, echoed)
				} else {
					assert.Regexp(t, uuidPattern, echoed)
				}
			})
		}
	}
}

func TestValidID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want bool
	}{
		{id: "", want: false},
		{id: "refresh-7f3a", want: true},
		{id: "ümlaut-id", want: true},
		{id: "tab\there", want: false},
		{id: "bell\a", want: false},
		{id: strings.Repeat("a", maxIDLength), want: true},
		{id: strings.Repeat("a", maxIDLength+1), want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, validID(tt.id), "validID(%q)", tt.id)
	}
}

func TestContextLogger_EnrichedByIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	router := gin.New()
	router.Use(ContextLogger(bufferLogger(&buf)), RequestID())
	router.GET("/test", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("handled")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "handled", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
}

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		skip      []string
		status    int
		wantLevel string
		wantLog   bool
	}{
		{name: "success at info", path: "/api/v1/quotes?jump=last", status: http.StatusOK, wantLevel: "INFO", wantLog: true},
		{name: "client error at warn", path: "/api/v1/quotes", status: http.StatusBadRequest, wantLevel: "WARN", wantLog: true},
		{name: "server error at error", path: "/api/v1/quotes", status: http.StatusServiceUnavailable, wantLevel: "ERROR", wantLog: true},
		{name: "health paths skipped", path: "/-/ready", status: http.StatusOK},
		{name: "configured path skipped", path: "/favicon.ico", skip: []string{"/favicon.ico"}, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			router := gin.New()
			router.Use(Logging(bufferLogger(&buf), tt.skip...))
			router.NoRoute(func(c *gin.Context) { c.Status(tt.status) })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			if !tt.wantLog {
				assert.Empty(t, buf.String())
				return
			}

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 2, "expected start and completion entries")

			var started, completed map[string]any
			require.NoError(t, json.Unmarshal([]byte(lines[0]), &started))
			require.NoError(t, json.Unmarshal([]byte(lines[1]), &completed))

			assert.Equal(t, "request started", started["msg"])
			assert.Equal(t, "DEBUG", started["level"])
			assert.Equal(t, "request completed", completed["msg"])
			assert.Equal(t, tt.wantLevel, completed["level"])
			assert.Equal(t, tt.path, completed["path"])
			assert.InDelta(t, float64(tt.status), completed["status"], 0)
		})
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	t.Run("normal request passes through", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("panicking handler returns 500 envelope", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Recovery())
		router.GET("/test", func(*gin.Context) { panic("something went wrong") })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, "req-panic")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
		assert.Equal(t, "req-panic", resp.TraceID)
		assert.NotContains(t, w.Body.String(), "something went wrong")
	})

	t.Run("stack handler receives panic", func(t *testing.T) {
		t.Parallel()

		var capturedErr any
		var capturedStack []byte

		router := gin.New()
		router.Use(RecoveryWithHandler(func(err any, stack []byte) {
			capturedErr = err
			capturedStack = stack
		}))
		router.GET("/test", func(*gin.Context) { panic("test panic") })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "test panic", capturedErr)
		assert.Contains(t, string(capturedStack), "panic")
	})
}

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("sets context deadline", func(t *testing.T) {
		t.Parallel()

		var hasDeadline bool

		router := gin.New()
		router.Use(Timeout(5 * time.Second))
		router.GET("/test", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, hasDeadline)
	})

	t.Run("writes 504 when handler gives up silently", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(20 * time.Millisecond))
		router.POST("/api/v1/quotes/refresh", func(c *gin.Context) {
			<-c.Request.Context().Done()
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/quotes/refresh", nil))

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrorCodeTimeout, resp.Error.Code)
	})

	t.Run("keeps handler response written after deadline", func(t *testing.T) {
		t.Parallel()

		router := gin.New()
		router.Use(Timeout(10 * time.Millisecond))
		router.GET("/test", func(c *gin.Context) {
			<-c.Request.Context().Done()
			c.JSON(http.StatusServiceUnavailable, gin.H{"handled": true})
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "handled")
	})

	t.Run("skipped paths and zero timeout have no deadline", func(t *testing.T) {
		t.Parallel()

		for _, mw := range []gin.HandlerFunc{Timeout(time.Second, "/-/ready"), Timeout(0)} {
			var hasDeadline bool

			router := gin.New()
			router.Use(mw)
			router.GET("/-/ready", func(c *gin.Context) {
				_, hasDeadline = c.Request.Context().Deadline()
				c.Status(http.StatusOK)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/-/ready", nil))

			assert.False(t, hasDeadline)
		}
	})
}
