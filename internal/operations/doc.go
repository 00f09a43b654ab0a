// Package operations runs the statistics pipeline as an ordered sequence of
// steps.
//
// Core Components:
//
// Manager: runs the pipeline of a Strategy one step at a time. A failed step
// stops the run and marks the remaining steps skipped. Only one run executes
// at a time.
//
// Step: a single unit of work. The standard steps are archive extraction,
// remote download, directory integration and statistics aggregation.
//
// Registry: holds the registered steps and the step sequence of each
// strategy.
//
// StatusBroadcaster: keeps an OperationSnapshot per run and hands every
// change to its ProgressReporters (console output for the CLI, the WebSocket
// hub for the server).
//
// Example usage:
//
//	registry, err := operations.NewPipelineRegistry(operations.PipelineDeps{
//		Paths:      paths,
//		Integrator: dataprocessing.NewIntegrator(paths, logger),
//		Aggregator: dataprocessing.NewCalculator(paths, logger),
//		Logger:     logger,
//	})
//	manager := operations.NewManager(registry, logger)
//	result, err := manager.Run(ctx, operations.Request{
//		Strategy:    operations.StrategyArchive,
//		ArchivePath: "2024_game_day_info.zip",
//	})
package operations
