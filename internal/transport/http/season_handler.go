package http

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/kevindiazor/ThePUL/internal/errors"
	"github.com/kevindiazor/ThePUL/internal/exporter"
	"github.com/kevindiazor/ThePUL/internal/middleware"
	"github.com/kevindiazor/ThePUL/internal/operations"
	"github.com/kevindiazor/ThePUL/internal/services"
	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SeasonReader is the season service as seen by the HTTP layer
type SeasonReader interface {
	Season(ctx context.Context) (*domain.Season, error)
	Info() services.SeasonInfo
	Refresh(ctx context.Context) (*operations.RunResult, error)

	Teams(ctx context.Context) ([]domain.TeamStatsOverall, error)
	TeamGames(ctx context.Context, team string) ([]domain.TeamStatsGame, error)
	Players(ctx context.Context, team string) ([]domain.PlayerStatsOverall, error)
	PlayerGames(ctx context.Context, f services.PlayerGameFilter) ([]domain.PlayerStatsGame, error)
	Standings(ctx context.Context) ([]domain.Standing, error)
	Games(ctx context.Context) ([]domain.GameSummary, error)
}

// teamQuery is the ?team= filter shared by several routes
type teamQuery struct {
	Team string `query:"team" validate:"omitempty,max=100"`
}

type playerGamesQuery struct {
	Team  string `query:"team" validate:"omitempty,max=100"`
	Match string `query:"match" validate:"omitempty,max=200"`
	Week  string `query:"week" validate:"omitempty,numeric,max=3"`
}

// listResponse wraps every collection the API returns
type listResponse struct {
	Data  interface{} `json:"data"`
	Count int         `json:"count"`
}

// SeasonHandler serves the aggregated season tables
type SeasonHandler struct {
	service      SeasonReader
	validator    *middleware.QueryValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// NewSeasonHandler creates a season handler
func NewSeasonHandler(service SeasonReader, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *SeasonHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	return &SeasonHandler{
		service:      service,
		validator:    middleware.NewQueryValidator(),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "season")),
	}
}

// Routes returns the read routes on their own router
func (h *SeasonHandler) Routes() chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// Register adds the read routes to r. The refresh route is registered by
// the caller so it can carry its own rate limit.
func (h *SeasonHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/season", h.GetSeason)
		r.Get("/teams", h.GetTeams)
		r.Get("/teams/games", h.GetTeamGames)
		r.Get("/players", h.GetPlayers)
		r.Get("/players/games", h.GetPlayerGames)
		r.Get("/games", h.GetGames)
		r.Get("/standings", h.GetStandings)
		r.Get("/export.xlsx", h.ExportWorkbook)
	})
}

// GetSeason handles GET /api/season
func (h *SeasonHandler) GetSeason(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Season(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, h.service.Info())
}

// GetTeams handles GET /api/teams
func (h *SeasonHandler) GetTeams(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Teams(r.Context())
	h.respondList(w, r, rows, len(rows), err)
}

// GetTeamGames handles GET /api/teams/games
func (h *SeasonHandler) GetTeamGames(w http.ResponseWriter, r *http.Request) {
	q := teamQuery{Team: r.URL.Query().Get("team")}
	if err := h.validator.Validate(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	rows, err := h.service.TeamGames(r.Context(), q.Team)
	h.respondList(w, r, rows, len(rows), err)
}

// GetPlayers handles GET /api/players
func (h *SeasonHandler) GetPlayers(w http.ResponseWriter, r *http.Request) {
	q := teamQuery{Team: r.URL.Query().Get("team")}
	if err := h.validator.Validate(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	rows, err := h.service.Players(r.Context(), q.Team)
	h.respondList(w, r, rows, len(rows), err)
}

// GetPlayerGames handles GET /api/players/games
func (h *SeasonHandler) GetPlayerGames(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := playerGamesQuery{
		Team:  values.Get("team"),
		Match: values.Get("match"),
		Week:  values.Get("week"),
	}
	if err := h.validator.Validate(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	rows, err := h.service.PlayerGames(r.Context(), services.PlayerGameFilter{
		Team:  q.Team,
		Match: q.Match,
		Week:  q.Week,
	})
	h.respondList(w, r, rows, len(rows), err)
}

// GetGames handles GET /api/games
func (h *SeasonHandler) GetGames(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Games(r.Context())
	h.respondList(w, r, rows, len(rows), err)
}

// GetStandings handles GET /api/standings
func (h *SeasonHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.Standings(r.Context())
	h.respondList(w, r, rows, len(rows), err)
}

// ExportWorkbook handles GET /api/export.xlsx
func (h *SeasonHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	season, err := h.service.Season(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteWorkbook(&buf, season); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("build workbook: %w", err))
		return
	}

	name := "season.xlsx"
	if season.RunID != "" {
		name = fmt.Sprintf("season-%s.xlsx", season.RunID)
	}
	w.Header().Set("Content-Type", workbookContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "workbook write failed", slog.String("error", err.Error()))
	}
}

// Refresh handles POST /api/refresh. The run is synchronous; progress is
// streamed on the websocket feed while it executes.
func (h *SeasonHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "refresh requested", slog.String("remote_addr", r.RemoteAddr))

	result, err := h.service.Refresh(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *SeasonHandler) respondList(w http.ResponseWriter, r *http.Request, rows interface{}, count int, err error) {
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, listResponse{Data: rows, Count: count})
}
