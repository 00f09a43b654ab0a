package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kevindiazor/ThePUL/internal/config"
	"github.com/kevindiazor/ThePUL/internal/dataprocessing"
	"github.com/kevindiazor/ThePUL/internal/infrastructure"
	"github.com/kevindiazor/ThePUL/internal/operations"
	"github.com/kevindiazor/ThePUL/pkg/contracts/domain"
)

const refreshKey = "refresh"

// PipelineRunner runs one acquisition and aggregation pass
type PipelineRunner interface {
	Run(ctx context.Context, req operations.Request) (*operations.RunResult, error)
}

// SeasonInfo describes the season currently served
type SeasonInfo struct {
	Available   bool      `json:"available"`
	RunID       string    `json:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
	LoadedAt    time.Time `json:"loaded_at,omitempty"`
	Teams       int       `json:"teams"`
	Players     int       `json:"players"`
	LastError   string    `json:"last_error,omitempty"`
}

// PlayerGameFilter narrows the per-game player rows. Empty fields match all.
type PlayerGameFilter struct {
	Team  string
	Match string
	Week  string
}

// SeasonService serves the aggregated season. A pipeline result is cached
// for the configured TTL and concurrent refreshes share one run. When a
// refresh fails the last good season keeps being served, falling back to
// the statistics already on disk.
type SeasonService struct {
	runner  PipelineRunner
	request operations.Request
	paths   *config.Paths
	ttl     time.Duration
	metrics *infrastructure.PipelineMetrics
	logger  *slog.Logger
	now     func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	season    *domain.Season
	loadedAt  time.Time
	lastError error
}

// SeasonOption configures a SeasonService
type SeasonOption func(*SeasonService)

// WithRunner enables refreshes through runner using req as the run template
func WithRunner(runner PipelineRunner, req operations.Request) SeasonOption {
	return func(s *SeasonService) {
		s.runner = runner
		s.request = req
	}
}

// WithCacheTTL sets how long a season stays fresh. Zero never expires.
func WithCacheTTL(ttl time.Duration) SeasonOption {
	return func(s *SeasonService) {
		s.ttl = ttl
	}
}

// WithMetrics records refresh outcomes
func WithMetrics(metrics *infrastructure.PipelineMetrics) SeasonOption {
	return func(s *SeasonService) {
		s.metrics = metrics
	}
}

// WithNow replaces the clock
func WithNow(now func() time.Time) SeasonOption {
	return func(s *SeasonService) {
		s.now = now
	}
}

// NewSeasonService creates a season service reading statistics under paths
func NewSeasonService(paths *config.Paths, logger *slog.Logger, opts ...SeasonOption) *SeasonService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SeasonService{
		paths:  paths,
		ttl:    config.DefaultCacheTTL,
		logger: logger.With("component", "season_service"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Season returns the current season, refreshing it when the cached copy is
// missing or stale.
func (s *SeasonService) Season(ctx context.Context) (*domain.Season, error) {
	s.mu.RLock()
	season, loadedAt := s.season, s.loadedAt
	s.mu.RUnlock()

	if season != nil && (s.ttl <= 0 || s.now().Sub(loadedAt) < s.ttl) {
		return season, nil
	}

	if s.runner == nil {
		return s.loadFromDisk(ctx)
	}

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.WarnContext(ctx, "Refresh failed, serving previous statistics",
			slog.String("error", err.Error()))
		if season != nil {
			return season, nil
		}
		return s.loadFromDisk(ctx)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.season, nil
}

// Refresh runs the pipeline and replaces the cached season. Callers arriving
// while a refresh is running wait for it and share its result.
func (s *SeasonService) Refresh(ctx context.Context) (*operations.RunResult, error) {
	if s.runner == nil {
		return nil, ErrRefreshDisabled
	}

	// Waiters share the run, so it must outlive the first caller's request.
	runCtx := context.WithoutCancel(ctx)

	v, err, shared := s.group.Do(refreshKey, func() (interface{}, error) {
		return s.refresh(runCtx)
	})
	if shared {
		s.logger.DebugContext(ctx, "Joined in-flight refresh")
	}
	result, _ := v.(*operations.RunResult)
	return result, err
}

func (s *SeasonService) refresh(ctx context.Context) (*operations.RunResult, error) {
	result, err := s.runner.Run(ctx, s.request)
	s.metrics.RecordRefresh(ctx, err)

	if err != nil {
		if errors.Is(err, operations.ErrOperationInProgress) {
			err = ErrRefreshInProgress
		} else {
			err = fmt.Errorf("pipeline run failed: %w", err)
		}
		s.mu.Lock()
		s.lastError = err
		s.mu.Unlock()
		return result, err
	}

	season := result.Season
	if season == nil {
		if season, err = dataprocessing.LoadSeason(s.paths); err != nil {
			return result, fmt.Errorf("failed to load statistics: %w", err)
		}
	}
	s.store(season)

	s.logger.InfoContext(ctx, "Season refreshed",
		slog.String("run_id", result.RunID),
		slog.Int("teams", len(season.Teams)),
		slog.Int("players", len(season.Players)))
	return result, nil
}

func (s *SeasonService) loadFromDisk(ctx context.Context) (*domain.Season, error) {
	season, err := dataprocessing.LoadSeason(s.paths)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoSeason
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics: %w", err)
	}

	s.logger.DebugContext(ctx, "Loaded statistics from disk",
		slog.Time("generated_at", season.GeneratedAt))
	s.store(season)
	return season, nil
}

func (s *SeasonService) store(season *domain.Season) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.season = season
	s.loadedAt = s.now()
	s.lastError = nil
}

// Info describes the cached season without triggering a refresh
func (s *SeasonService) Info() SeasonInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := SeasonInfo{LoadedAt: s.loadedAt}
	if s.lastError != nil {
		info.LastError = s.lastError.Error()
	}
	if s.season != nil {
		info.Available = true
		info.RunID = s.season.RunID
		info.GeneratedAt = s.season.GeneratedAt
		info.Teams = len(s.season.Teams)
		info.Players = len(s.season.Players)
	}
	return info
}

// Teams returns the season table per team
func (s *SeasonService) Teams(ctx context.Context) ([]domain.TeamStatsOverall, error) {
	season, err := s.Season(ctx)
	if err != nil {
		return nil, err
	}
	return season.Teams, nil
}

// TeamGames returns the per-game team rows
func (s *SeasonService) TeamGames(ctx context.Context, team string) ([]domain.TeamStatsGame, error) {
	season, err := s.Season(ctx)
	if err != nil {
		return nil, err
	}
	return filter(season.TeamGames, func(g domain.TeamStatsGame) bool {
		return matches(team, g.Team)
	}), nil
}

// Players returns the season table per player, optionally for one team
func (s *SeasonService) Players(ctx context.Context, team string) ([]domain.PlayerStatsOverall, error) {
	season, err := s.Season(ctx)
	if err != nil {
		return nil, err
	}
	return filter(season.Players, func(p domain.PlayerStatsOverall) bool {
		return matches(team, p.Team)
	}), nil
}

// PlayerGames returns the per-game player rows matching f
func (s *SeasonService) PlayerGames(ctx context.Context, f PlayerGameFilter) ([]domain.PlayerStatsGame, error) {
	season, err := s.Season(ctx)
	if err != nil {
		return nil, err
	}
	return filter(season.PlayerGames, func(p domain.PlayerStatsGame) bool {
		return matches(f.Team, p.Team) && matches(f.Match, p.Match) && matches(f.Week, p.Week)
	}), nil
}

// Standings returns the standings derived from the season
func (s *SeasonService) Standings(ctx context.Context) ([]domain.Standing, error) {
	season, err := s.Season(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStandings(season), nil
}

// Games returns one summary per match
func (s *SeasonService) Games(ctx context.Context) ([]domain.GameSummary, error) {
	season, err := s.Season(ctx)
	if err != nil {
		return nil, err
	}
	return BuildGameSummaries(season.TeamGames), nil
}

func filter[T any](rows []T, keep func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func matches(want, got string) bool {
	return want == "" || strings.EqualFold(want, got)
}
