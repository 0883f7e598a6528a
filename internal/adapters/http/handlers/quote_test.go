package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotefeed/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/mocks"
)

func readyState(n int) domain.SyncState {
	list := make(domain.QuoteList, n)
	for i := range list {
		list[i] = domain.Quote{Text: string(rune('A' + i)), Author: "author"}
	}

	return domain.NewSyncState().WithFetched(list)
}

// setupQuoteRouter wires a QuoteHandler over a mock feed onto a bare engine.
func setupQuoteRouter(t *testing.T, setupMock func(*mocks.MockQuoteFeed)) *gin.Engine {
	t.Helper()

	feed := mocks.NewMockQuoteFeed(t)
	if setupMock != nil {
		setupMock(feed)
	}

	router := gin.New()
	NewQuoteHandler(feed, app.NewPresenter(domain.StableColors{})).RegisterQuoteRoutes(router.Group("/api/v1"))

	return router
}

func serve(router *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, target, nil))

	return w
}

func TestNewQuoteHandler(t *testing.T) {
	handler := NewQuoteHandler(mocks.NewMockQuoteFeed(t), nil)

	require.NotNil(t, handler)
	assert.NotNil(t, handler.presenter)
}

func TestQuoteHandler_ListQuotes(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		state          domain.SyncState
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "ready list",
			target:         "/api/v1/quotes",
			state:          readyState(7),
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp dto.QuotesResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "ready", resp.Phase)
				assert.Len(t, resp.Quotes, 7)
				assert.Equal(t, 0, resp.Start)
				require.NotNil(t, resp.Scroll)
				assert.Equal(t, 3, resp.Scroll.Middle)
			},
		},
		{
			name:           "jump to last",
			target:         "/api/v1/quotes?jump=last",
			state:          readyState(7),
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp dto.QuotesResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, 6, resp.Start)
			},
		},
		{
			name:           "still loading",
			target:         "/api/v1/quotes",
			state:          domain.NewSyncState(),
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp dto.QuotesResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, resp.Loading)
				assert.Empty(t, resp.Quotes)
				assert.Nil(t, resp.Scroll)
			},
		},
		{
			name:           "jump on empty list",
			target:         "/api/v1/quotes?jump=first",
			state:          domain.NewSyncState().WithFetchFailed(),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid jump",
			target:         "/api/v1/quotes?jump=top",
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
				assert.Contains(t, resp.Error.Details, "jump")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQuoteRouter(t, func(m *mocks.MockQuoteFeed) {
				if tt.expectedStatus != http.StatusBadRequest {
					m.EXPECT().State().Return(tt.state)
				}
			})

			w := serve(router, http.MethodGet, tt.target)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestQuoteHandler_RefreshQuotes(t *testing.T) {
	tests := []struct {
		name           string
		refreshErr     error
		expectedStatus int
		checkResponse  func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:           "success",
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp dto.RefreshResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.False(t, resp.Superseded)
				assert.Len(t, resp.Quotes, 3)
				assert.NotEmpty(t, resp.Duration)
			},
		},
		{
			name:           "superseded by newer sync",
			refreshErr:     domain.ErrSuperseded,
			expectedStatus: http.StatusAccepted,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp dto.RefreshResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, resp.Superseded)
			},
		},
		{
			name:           "fetch failed",
			refreshErr:     domain.NewFetchFailedError(domain.NewUnavailableError("zenquotes", "HTTP 500")),
			expectedStatus: http.StatusServiceUnavailable,
			checkResponse: func(t *testing.T, w *httptest.ResponseRecorder) {
				t.Helper()
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, domain.FetchFailedAlert.Message, resp.Error.Message)
				assert.NotContains(t, w.Body.String(), "HTTP 500")
			},
		},
		{
			name:           "unexpected error",
			refreshErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQuoteRouter(t, func(m *mocks.MockQuoteFeed) {
				m.EXPECT().Refresh(mock.Anything).Return(tt.refreshErr)
				if tt.expectedStatus < http.StatusBadRequest {
					m.EXPECT().State().Return(readyState(3))
				}
			})

			w := serve(router, http.MethodPost, "/api/v1/quotes/refresh")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, w)
			}
		})
	}
}

func TestQuoteHandler_ScrollTarget(t *testing.T) {
	tests := []struct {
		name           string
		position       string
		state          domain.SyncState
		expectedStatus int
		expectedIndex  int
	}{
		{name: "first", position: "first", state: readyState(50), expectedStatus: http.StatusOK, expectedIndex: 0},
		{name: "middle", position: "middle", state: readyState(50), expectedStatus: http.StatusOK, expectedIndex: 25},
		{name: "last", position: "last", state: readyState(50), expectedStatus: http.StatusOK, expectedIndex: 49},
		{name: "single quote", position: "last", state: readyState(1), expectedStatus: http.StatusOK, expectedIndex: 0},
		{name: "empty list", position: "middle", state: domain.NewSyncState().WithFetchFailed(), expectedStatus: http.StatusNotFound},
		{name: "unknown position", position: "bottom", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQuoteRouter(t, func(m *mocks.MockQuoteFeed) {
				if tt.expectedStatus != http.StatusBadRequest {
					m.EXPECT().State().Return(tt.state)
				}
			})

			w := serve(router, http.MethodGet, "/api/v1/quotes/scroll/"+tt.position)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp dto.ScrollResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.position, resp.Position)
			assert.Equal(t, tt.expectedIndex, resp.Index)
			assert.Equal(t, tt.state.Quotes()[tt.expectedIndex].Text, resp.Quote.Text)
		})
	}
}

func TestQuoteHandler_RegisterQuoteRoutes(t *testing.T) {
	router := setupQuoteRouter(t, nil)

	routeMap := make(map[string]bool)
	for _, r := range router.Routes() {
		routeMap[r.Method+" "+r.Path] = true
	}

	for _, expected := range []string{
		"GET /api/v1/quotes",
		"POST /api/v1/quotes/refresh",
		"GET /api/v1/quotes/scroll/:position",
	} {
		assert.True(t, routeMap[expected], "missing route: %s", expected)
	}
}
