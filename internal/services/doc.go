// Package services implements the business logic layer between the HTTP
// handlers and the statistics pipeline.
//
// # Available Services
//
//	- SeasonService: serves the aggregated season, refreshing it through the
//	  pipeline manager when the cached copy expires
//	- HealthService: readiness and liveness reporting
//
// # Caching
//
// SeasonService keeps the last good domain.Season in memory for the
// configured TTL. Concurrent refreshes are collapsed with singleflight so a
// burst of requests starts a single pipeline run. A failed refresh keeps the
// previous season; with nothing cached the statistics already in stats/ are
// loaded from disk.
//
// # Error Handling
//
// Services return sentinel errors that handlers map to problem details:
//
//	- ErrNoSeason: nothing has been aggregated yet (404)
//	- ErrRefreshInProgress: another run holds the manager (409)
//	- ErrRefreshDisabled: the service was built without a runner (503)
//	- ErrInvalidInput: bad query parameters (400)
//
// # Testing
//
// The pipeline is injected as a PipelineRunner and mocked with testify:
//
//	runner := &mockRunner{}
//	runner.On("Run", mock.Anything, mock.Anything).Return(result, nil)
//	svc := NewSeasonService(paths, nil, WithRunner(runner, req))
package services
