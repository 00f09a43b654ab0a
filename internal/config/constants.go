package config

import "time"

// Application constants
const (
	AppName    = "ultistats"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. ULTISTATS_SERVER_ADDR
	EnvPrefix = "ULTISTATS"

	// Default acquisition input
	DefaultArchiveName = "2024_game_day_info.zip"

	// Working directory layout
	ExtractDirName  = "game_day_info"
	DownloadDirName = "game_data"
	IntegDirName    = "integ-data"
	StatsDirName    = "stats"
	LogsDirName     = "logs"

	// Integrated raw tables
	PossessionsFile     = "Possessions.csv"
	PlayerStatsFile     = "Player-Stats.csv"
	DefensiveBlocksFile = "Defensive-Blocks.csv"
	PointsFile          = "Points.csv"
	PassesFile          = "Passes.csv"

	// Aggregated outputs
	TeamOverallFile    = "team-stats-overall.csv"
	TeamGameFile       = "team-stats-game.csv"
	PlayerOverallFile  = "player-stats-overall.csv"
	PlayerGameFile     = "player-stats-game.csv"
	SeasonWorkbookFile = "season-stats.xlsx"

	// Server
	DefaultCacheTTL          = 10 * time.Minute
	WebSocketPingPeriod      = 30 * time.Second
	WebSocketPongWait        = 60 * time.Second
	WebSocketReadBufferSize  = 1024
	WebSocketWriteBufferSize = 1024
)
