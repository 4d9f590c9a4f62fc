package beatwatch

import (
	"beatwatch.beatmonitor.org/internal/appconf"
	"beatwatch.beatmonitor.org/internal/parser"
)

// Config holds the data-layer configuration.
type Config struct {
	// DataDir is the directory raw BEATwatch files are read from.
	DataDir string
	// DBPath is the SQLite database path, or ":memory:".
	DBPath string
	// Timezone is the IANA timezone of the records; empty means UTC.
	Timezone string
	// FileVersion is the BEATwatch release that wrote the files. Heart rate
	// files written before 0.2.0 need a compatibility conversion.
	FileVersion float64
	// Watch ingests new files as they appear in DataDir.
	Watch   bool
	Verbose bool
	Env     appconf.Environment
}

func (config Config) fileVersion() float64 {
	if config.FileVersion == 0 {
		return parser.DefaultFileVersion
	}
	return config.FileVersion
}
