// Package config provides the configuration system for inertia.
//
// Settings come from layers, higher layers overriding lower ones:
//
//	┌─────────────────────────────┐
//	│  4. Runtime (Config.Set)    │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← INERTIA_*
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← settings.toml / settings.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - layer: layer stack and merging
//   - loader: TOML, YAML and environment loaders
//   - watcher: file watching for live reload
//   - notify: change notification
//
// # Snapshots
//
// Every load, reload or Set merges the layers, normalizes the result and
// publishes it atomically. Readers on hot paths call Scroll (or Current,
// which satisfies the scroll engine's settings source) and always get a
// complete, clamped ScrollConfig with no lock taken:
//
//	cfg := config.New(config.WithFile(path))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
//	<-cfg.Ready()
//	s := cfg.Scroll()
//
// A reload that fails to parse is logged and the previous snapshot stays in
// effect.
//
// # Configuration Files
//
//	# settings.toml
//	[scroll]
//	enabled = true
//	intensity = 4
//	shiftEnabled = true
//	shiftIntensity = 30
//	deceleration = 6
//	minimumValue = 0.1
//	interruptOnDirectionChange = true
//	pauseOnCtrl = true
//	tickIntervalMs = 5
//
//	[logging]
//	level = "info"
//	file = ""
//
//	[viewport]
//	linePixels = 16
//
// # Environment Variables
//
// INERTIA_SECTION_SOME_KEY sets section.someKey. Short forms exist for the
// common settings: INERTIA_ENABLED, INERTIA_INTENSITY, INERTIA_SHIFT_INTENSITY,
// INERTIA_DECELERATION, INERTIA_TICK_MS, INERTIA_LOG_LEVEL and INERTIA_LOG_FILE.
package config
