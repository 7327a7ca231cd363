package loader

import (
	"os"
	"strconv"
	"strings"
)

// DefaultEnvPrefix is the prefix of recognized environment variables.
const DefaultEnvPrefix = "INERTIA_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "INERTIA_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "INERTIA_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// defaultEnvMapping returns the short names for the most common settings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "ENABLED":         "scroll.enabled",
		prefix + "INTENSITY":       "scroll.intensity",
		prefix + "SHIFT_INTENSITY": "scroll.shiftIntensity",
		prefix + "DECELERATION":    "scroll.deceleration",
		prefix + "TICK_MS":         "scroll.tickIntervalMs",
		prefix + "LOG_LEVEL":       "logging.level",
		prefix + "LOG_FILE":        "logging.file",
	}
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	env := make(map[string]string)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		env[name] = value
	}

	// Generic names first so an explicit mapping wins for the same path.
	for name, value := range env {
		if _, ok := l.mapping[name]; ok {
			continue
		}
		path := l.envToPath(name)
		if path == "" {
			continue
		}
		setByPath(config, path, parseValue(value))
	}
	for name, path := range l.mapping {
		if value, ok := env[name]; ok {
			setByPath(config, path, parseValue(value))
		}
	}

	return config, nil
}

// envToPath converts INERTIA_SCROLL_TICK_INTERVAL_MS to scroll.tickIntervalMs.
// The first segment is the section, the rest form a camelCase key.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '_' })
	if len(parts) == 0 {
		return ""
	}

	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	var key strings.Builder
	key.WriteString(strings.ToLower(parts[1]))
	for _, part := range parts[2:] {
		key.WriteString(strings.ToUpper(part[:1]))
		key.WriteString(strings.ToLower(part[1:]))
	}
	return section + "." + key.String()
}

// parseValue converts an environment string to a bool, integer or float
// where it reads as one, and leaves it a string otherwise. "1" and "0" are
// integers; booleans are spelled out.
func parseValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
