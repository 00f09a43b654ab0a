// Package app wires the statistics server together and manages its
// lifecycle.
//
// # Initialization Flow
//
//	1. Resolve the working directory layout and create its folders
//	2. Initialize OpenTelemetry and the pipeline metrics
//	3. Build the progress hub and the pipeline manager
//	4. Build the season and health services
//	5. Set up the router and the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// NewPipelineManager and PipelineRequest are also used on their own by the
// command line to run the pipeline once without a server.
//
// # Graceful Shutdown
//
// Run stops on SIGINT or SIGTERM. In-flight requests get the configured
// shutdown timeout, websocket clients are closed and telemetry is flushed.
// Errors are returned to the caller; the package never calls os.Exit.
package app
