package config

import (
	"math"

	"github.com/dshills/inertia/internal/config/layer"
)

// Section values are snapshots. Mutating a returned struct does not modify
// the configuration; use Config.Set.

// LoggingConfig provides type-safe access to logging settings.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string

	// File is the log file path. Empty disables logging.
	File string

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept.
	MaxBackups int

	// MaxAgeDays is how long rotated files are kept.
	MaxAgeDays int

	// Compress gzips rotated files.
	Compress bool
}

// ViewportConfig provides type-safe access to viewport settings.
type ViewportConfig struct {
	// LinePixels is the height of one text line in scroll pixels.
	LinePixels int
}

// Viewport limits.
const (
	DefaultLinePixels = 16
	MinLinePixels     = 1
	MaxLinePixels     = 256
)

// sections is the typed view of one published configuration.
type sections struct {
	scroll   ScrollConfig
	logging  LoggingConfig
	viewport ViewportConfig
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	s := DefaultScrollConfig()
	return map[string]any{
		"scroll": map[string]any{
			"enabled":                    s.Enabled,
			"intensity":                  s.ScrollIntensity,
			"shiftEnabled":               s.ShiftScrollEnabled,
			"shiftIntensity":             s.ShiftScrollIntensity,
			"deceleration":               s.DecelerationSpeed,
			"minimumValue":               s.MinimumScrollValue,
			"interruptOnDirectionChange": s.InterruptOnDirectionChange,
			"pauseOnCtrl":                s.PauseOnCtrl,
			"tickIntervalMs":             s.TickIntervalMs,
		},
		"logging": map[string]any{
			"level":      "info",
			"file":       "",
			"maxSize":    10,
			"maxBackups": 3,
			"maxAge":     28,
			"compress":   false,
		},
		"viewport": map[string]any{
			"linePixels": DefaultLinePixels,
		},
	}
}

// sectionReader extracts typed values from a merged map, falling back to
// defaults and recording type errors per path.
type sectionReader struct {
	data map[string]any
	errs map[string]error
}

func (r *sectionReader) lookup(path string) (any, bool) {
	return layer.GetByPath(r.data, path)
}

func (r *sectionReader) record(path string, err error) {
	if r.errs == nil {
		r.errs = make(map[string]error)
	}
	if _, exists := r.errs[path]; !exists {
		r.errs[path] = err
	}
}

func (r *sectionReader) floatOr(path string, def float64) float64 {
	v, ok := r.lookup(path)
	if !ok {
		return def
	}
	f, err := asFloat(path, v)
	if err != nil {
		r.record(path, err)
		return def
	}
	return f
}

func (r *sectionReader) intOr(path string, def int) int {
	v, ok := r.lookup(path)
	if !ok {
		return def
	}
	i, err := asInt(path, v)
	if err != nil {
		r.record(path, err)
		return def
	}
	return i
}

func (r *sectionReader) boolOr(path string, def bool) bool {
	v, ok := r.lookup(path)
	if !ok {
		return def
	}
	b, err := asBool(path, v)
	if err != nil {
		r.record(path, err)
		return def
	}
	return b
}

func (r *sectionReader) stringOr(path string, def string) string {
	v, ok := r.lookup(path)
	if !ok {
		return def
	}
	s, err := asString(path, v)
	if err != nil {
		r.record(path, err)
		return def
	}
	return s
}

func (r *sectionReader) sections() sections {
	d := DefaultScrollConfig()
	scroll := ScrollConfig{
		Enabled:                    r.boolOr("scroll.enabled", d.Enabled),
		ScrollIntensity:            r.floatOr("scroll.intensity", d.ScrollIntensity),
		ShiftScrollEnabled:         r.boolOr("scroll.shiftEnabled", d.ShiftScrollEnabled),
		ShiftScrollIntensity:       r.floatOr("scroll.shiftIntensity", d.ShiftScrollIntensity),
		DecelerationSpeed:          r.floatOr("scroll.deceleration", d.DecelerationSpeed),
		MinimumScrollValue:         r.floatOr("scroll.minimumValue", d.MinimumScrollValue),
		InterruptOnDirectionChange: r.boolOr("scroll.interruptOnDirectionChange", d.InterruptOnDirectionChange),
		PauseOnCtrl:                r.boolOr("scroll.pauseOnCtrl", d.PauseOnCtrl),
		TickIntervalMs:             r.intOr("scroll.tickIntervalMs", d.TickIntervalMs),
	}

	logging := LoggingConfig{
		Level:      r.stringOr("logging.level", "info"),
		File:       r.stringOr("logging.file", ""),
		MaxSizeMB:  r.intOr("logging.maxSize", 10),
		MaxBackups: r.intOr("logging.maxBackups", 3),
		MaxAgeDays: r.intOr("logging.maxAge", 28),
		Compress:   r.boolOr("logging.compress", false),
	}

	viewport := ViewportConfig{
		LinePixels: r.intOr("viewport.linePixels", DefaultLinePixels),
	}
	if viewport.LinePixels < MinLinePixels {
		viewport.LinePixels = MinLinePixels
	}
	if viewport.LinePixels > MaxLinePixels {
		viewport.LinePixels = MaxLinePixels
	}

	return sections{
		scroll:   scroll.Normalize(),
		logging:  logging,
		viewport: viewport,
	}
}

func asFloat(path string, v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "float64", Actual: typeName(v)}
	}
}

// asInt accepts whole floats, since YAML and JSON-style sources write 5.0
// for 5.
func asInt(path string, v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return clampToInt(float64(val)), nil
	case uint64:
		return clampToInt(float64(val)), nil
	case float64:
		if val == math.Trunc(val) {
			return clampToInt(val), nil
		}
	}
	return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
}

func clampToInt(f float64) int {
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	default:
		return int(f)
	}
}

func asBool(path string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

func asString(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float32, float64:
		return "float64"
	case bool:
		return "bool"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return "unknown"
	}
}

// kindOf groups type names for Set validation: any number may replace any
// number.
func kindOf(v any) string {
	switch name := typeName(v); name {
	case "int", "float64":
		return "number"
	default:
		return name
	}
}
