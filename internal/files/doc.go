// Package files provides file system operations and discovery utilities
// for the ultistats pipeline.
//
// This package contains three components:
//
// Discovery: walks a whole extracted game tree and returns its CSV files
// in lexical order.
//
// ExtractZip: unpacks a game-day archive, preserving its folder structure
// and rejecting entries that would escape the destination.
//
// Manager: work-directory scoped helpers such as resetting the extraction
// and download directories before a run.
//
// Example usage:
//
//	n, err := files.ExtractZip(ctx, "2024_game_day_info.zip", paths.ExtractDir)
//
//	discovery := files.NewDiscovery(paths.WorkDir)
//	csvFiles, err := discovery.WalkCSVFiles(ctx, paths.ExtractDir)
package files
