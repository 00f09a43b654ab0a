// Package dataprocessing turns per-game ultimate event logs into season
// statistics.
//
// # Architecture
//
// The package is organized into three stages:
//
// 1. Loader: walks a directory, classifies each CSV by file name and tags
// every row with the game's match and week
// 2. Integrator: concatenates each category and writes the integ-data tables
// 3. Calculator: decodes the integrated tables into typed records and
// aggregates team and player statistics
//
// # Usage
//
// Integrating an archive:
//
//	integrator := dataprocessing.NewIntegrator(paths, logger)
//	report, err := integrator.IntegrateArchive(ctx, "2024_game_day_info.zip")
//	if err != nil {
//	    return err
//	}
//
// Aggregating the integrated data:
//
//	calc := dataprocessing.NewCalculator(paths, logger, dataprocessing.WithWorkbook(true))
//	season, err := calc.Run(ctx)
//
// # Data Flow
//
//	Game CSVs → Loader → Tables → Integrator → integ-data → Calculator → stats
//
// # Error Handling
//
// A source file that cannot be read or decoded is skipped and recorded in the
// LoadReport; the run continues. Failures while aggregating abort the run and
// leave earlier stats outputs in place. Cell and column problems wrap
// ErrInvalidValue, ErrMissingColumn, ErrMalformedRow or ErrNoHeader inside a
// FileError naming the file.
package dataprocessing
