// Package http implements the HTTP handlers of the statistics server.
// Handlers stay thin: they decode and validate query parameters, call the
// season service and render the result. Every failure goes through the
// shared ErrorHandler so clients always receive RFC 7807 problem details.
//
// # Routes
//
//	GET  /api/season              season metadata (run id, load time)
//	GET  /api/teams               team season totals
//	GET  /api/teams/games         team per-game rows (?team=)
//	GET  /api/players             player season totals (?team=)
//	GET  /api/players/games       player per-game rows (?team= ?match= ?week=)
//	GET  /api/games               per-game summaries
//	GET  /api/standings           holds/breaks standings
//	GET  /api/export.xlsx         the season as an Excel workbook
//	POST /api/refresh             rerun the pipeline (rate limited)
//	GET  /api/operations/latest   last pipeline run snapshot
//	GET  /healthz                 health and readiness
//	GET  /metrics                 Prometheus metrics
//
// # Testing
//
// Handlers depend on small interfaces and are tested with testify mocks
// and httptest.
package http
