package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotefeed/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefeed/internal/app"
	"github.com/jsamuelsen/quotefeed/internal/domain"
	"github.com/jsamuelsen/quotefeed/internal/ports"
)

// QuoteHandler serves the quote list, pull-to-refresh and jump targets.
type QuoteHandler struct {
	feed      ports.QuoteFeed
	presenter *app.Presenter
	now       func() time.Time
}

// NewQuoteHandler creates a new quote handler. A nil presenter uses random colors.
func NewQuoteHandler(feed ports.QuoteFeed, presenter *app.Presenter) *QuoteHandler {
	if presenter == nil {
		presenter = app.NewPresenter(nil)
	}

	return &QuoteHandler{
		feed:      feed,
		presenter: presenter,
		now:       time.Now,
	}
}

// ListQuotes handles GET /api/v1/quotes
// Returns the current screen. With ?jump= the view starts at that target.
//
// @Summary List quotes
// @Tags quotes
// @Produce json
// @Param jump query string false "Jump target" Enums(first, middle, last)
// @Success 200 {object} dto.QuotesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes [get]
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var req dto.QuotesRequest

	err := dto.BindQueryAndValidate(c, &req)
	if err != nil {
		respondBindError(c, err)
		return
	}

	screen := h.presenter.Present(h.feed.State())

	start := 0
	if req.Jump != "" {
		start, err = screen.ScrollTo(domain.ScrollPosition(req.Jump))
		if err != nil {
			dto.HandleError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, dto.NewQuotesResponse(screen, start))
}

// RefreshQuotes handles POST /api/v1/quotes/refresh
// Runs a sync and returns the resulting screen. When a newer sync overtook
// this one the response is 202 with superseded set.
//
// @Summary Refresh quotes
// @Tags quotes
// @Produce json
// @Success 200 {object} dto.RefreshResponse
// @Success 202 {object} dto.RefreshResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/quotes/refresh [post]
func (h *QuoteHandler) RefreshQuotes(c *gin.Context) {
	started := h.now()

	err := h.feed.Refresh(c.Request.Context())

	status := http.StatusOK
	superseded := false

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSuperseded):
		status = http.StatusAccepted
		superseded = true
	default:
		dto.HandleError(c, err)
		return
	}

	finished := h.now()

	c.JSON(status, dto.RefreshResponse{
		QuotesResponse: dto.NewQuotesResponse(h.presenter.Present(h.feed.State()), 0),
		Superseded:     superseded,
		Duration:       finished.Sub(started).String(),
		FinishedAt:     finished.UTC(),
	})
}

// ScrollTarget handles GET /api/v1/quotes/scroll/:position
// Returns the quote behind a jump target.
//
// @Summary Resolve a jump target
// @Tags quotes
// @Produce json
// @Param position path string true "Jump target" Enums(first, middle, last)
// @Success 200 {object} dto.ScrollResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/quotes/scroll/{position} [get]
func (h *QuoteHandler) ScrollTarget(c *gin.Context) {
	var req dto.ScrollRequest

	err := dto.BindURIAndValidate(c, &req)
	if err != nil {
		respondBindError(c, err)
		return
	}

	screen := h.presenter.Present(h.feed.State())

	index, err := screen.ScrollTo(domain.ScrollPosition(req.Position))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	item := screen.Items[index]

	c.JSON(http.StatusOK, dto.ScrollResponse{
		Position: req.Position,
		Index:    index,
		Quote: dto.QuoteResponse{
			Index:  item.Index,
			Text:   item.Quote.Text,
			Author: item.Quote.Author,
			Color:  string(item.Color),
		},
	})
}

func respondBindError(c *gin.Context, err error) {
	if dto.IsValidationError(err) {
		dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
}

// RegisterQuoteRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("/refresh", h.RefreshQuotes)
	quotes.GET("/scroll/:position", h.ScrollTarget)
}
