package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagDir     = flag.String("dir", "", "Mesh directory to index")
	flagIndex   = flag.String("index", "", "Path of the scene index JSON file")
	flagSQLite  = flag.String("sqlite", "", "Path of the SQLite mirror")
	flagRebuild = flag.Bool("rebuild", false, "Rebuild the index even if one exists")
	flagLogFile = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDir != "" {
		cfg.Scene.MeshDir = *flagDir
	}
	if *flagIndex != "" {
		cfg.Scene.IndexPath = *flagIndex
	}
	if *flagSQLite != "" {
		cfg.Scene.SQLitePath = *flagSQLite
	}
	if *flagRebuild {
		cfg.Scene.Rebuild = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
