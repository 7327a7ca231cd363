// Package layer stacks configuration sources and merges them by priority.
//
// Each Source contributes at most one Layer. Higher priority layers override
// values from lower ones; nested maps are merged key by key.
package layer

import (
	"time"
)

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceDefaults represents the built-in defaults.
	SourceDefaults Source = iota
	// SourceFile represents the settings file.
	SourceFile
	// SourceEnv represents environment variables.
	SourceEnv
	// SourceRuntime represents values set while running.
	SourceRuntime
)

// Standard priority levels. Higher values override lower values.
const (
	PriorityDefaults = 0
	PriorityFile     = 100
	PriorityEnv      = 500
	PriorityRuntime  = 1000
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceDefaults:
		return "defaults"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Priority returns the merge priority of the source.
func (s Source) Priority() int {
	switch s {
	case SourceFile:
		return PriorityFile
	case SourceEnv:
		return PriorityEnv
	case SourceRuntime:
		return PriorityRuntime
	default:
		return PriorityDefaults
	}
}

// Layer is one source's contribution to the configuration.
type Layer struct {
	// Source identifies the layer. A Stack holds one layer per source.
	Source Source

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the values as a nested map.
	Data map[string]any

	// LoadedAt is when the layer was created.
	LoadedAt time.Time
}

// New creates a layer holding data.
func New(source Source, data map[string]any) *Layer {
	if data == nil {
		data = make(map[string]any)
	}
	return &Layer{
		Source:   source,
		Data:     data,
		LoadedAt: time.Now(),
	}
}

// NewFile creates a file layer read from path.
func NewFile(path string, data map[string]any) *Layer {
	l := New(SourceFile, data)
	l.Path = path
	return l
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	return &Layer{
		Source:   l.Source,
		Path:     l.Path,
		Data:     CloneMap(l.Data),
		LoadedAt: l.LoadedAt,
	}
}
