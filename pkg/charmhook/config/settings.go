package config

import (
	"github.com/randalmurphal/charmhook/pkg/charmhook/env"
)

// PathVar names the environment variable holding the settings file path.
const PathVar = "CHARMHOOK_CONFIG"

// Settings is the charm's runtime configuration.
type Settings struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFormat is "text" or "json". Logs go to stderr.
	LogFormat string

	// JournalPath is the SQLite journal file. Empty disables the journal.
	JournalPath string

	// Metrics enables OpenTelemetry metrics. Instruments come from the
	// global meter provider, so the process embedding charmhook must
	// install an SDK provider with an exporter; otherwise nothing is
	// exported.
	Metrics bool

	// Tracing enables OpenTelemetry spans through the global tracer
	// provider, with the same requirement as Metrics.
	Tracing bool

	// WatchRelation is the relation whose created and departed events
	// have handlers. Events for other relations are ignored.
	WatchRelation string

	// Workloads lists the workloads with a pebble-ready handler.
	Workloads []string
}

// Defaults returns the settings used when no file is configured.
func Defaults() Settings {
	return Settings{
		LogLevel:      "info",
		LogFormat:     "text",
		WatchRelation: "some-regular-relation",
		Workloads:     []string{"workload"},
	}
}

// SettingsFrom reads Settings from a Config, falling back to Defaults for
// anything unset.
//
//	log:
//	  level: debug
//	  format: json
//	journal: /var/lib/charmhook/journal.db
//	metrics: true
//	tracing: false
//	watch_relation: db
//	workloads: [nginx, redis]
func SettingsFrom(c Config) Settings {
	d := Defaults()
	log := c.Section("log")
	return Settings{
		LogLevel:      log.String("level", d.LogLevel),
		LogFormat:     log.String("format", d.LogFormat),
		JournalPath:   c.String("journal", d.JournalPath),
		Metrics:       c.Bool("metrics", d.Metrics),
		Tracing:       c.Bool("tracing", d.Tracing),
		WatchRelation: c.String("watch_relation", d.WatchRelation),
		Workloads:     c.StringSlice("workloads", d.Workloads),
	}
}

// Load reads Settings from the file named by CHARMHOOK_CONFIG in src.
// If the variable is unset or empty, Defaults is returned. A file that
// cannot be read or parsed returns Defaults and the error.
func Load(src env.Source) (Settings, error) {
	path, ok := src.Lookup(PathVar)
	if !ok || path == "" {
		return Defaults(), nil
	}
	c, err := FromFile(path)
	if err != nil {
		return Defaults(), err
	}
	return SettingsFrom(c), nil
}
