package layer

import (
	"sort"
	"sync"
)

// Stack holds the active layers and caches their merged result.
type Stack struct {
	mu     sync.Mutex
	layers []*Layer // ascending priority
	merged map[string]any
	dirty  bool
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{dirty: true}
}

// Put installs l, replacing any layer from the same source.
func (s *Stack) Put(l *Layer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.layers {
		if existing.Source == l.Source {
			s.layers[i] = l
			s.dirty = true
			return
		}
	}
	s.layers = append(s.layers, l)
	sort.SliceStable(s.layers, func(i, j int) bool {
		return s.layers[i].Source.Priority() < s.layers[j].Source.Priority()
	})
	s.dirty = true
}

// Remove drops the layer from source. It reports whether one was present.
func (s *Stack) Remove(source Source) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, l := range s.layers {
		if l.Source == source {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			s.dirty = true
			return true
		}
	}
	return false
}

// Layer returns a copy of the layer from source, or nil.
func (s *Stack) Layer(source Source) *Layer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l := s.find(source); l != nil {
		return l.Clone()
	}
	return nil
}

// Len returns the number of layers.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.layers)
}

// Set stores value at path in the layer from source, creating the layer if
// it does not exist yet.
func (s *Stack) Set(source Source, path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.find(source)
	if l == nil {
		l = New(source, nil)
		s.layers = append(s.layers, l)
		sort.SliceStable(s.layers, func(i, j int) bool {
			return s.layers[i].Source.Priority() < s.layers[j].Source.Priority()
		})
	}
	if err := SetByPath(l.Data, path, value); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// Merge combines all layers into one map. The result is a copy the caller
// may modify.
func (s *Stack) Merge() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dirty || s.merged == nil {
		result := make(map[string]any)
		for _, l := range s.layers {
			result = DeepMerge(result, CloneMap(l.Data))
		}
		s.merged = result
		s.dirty = false
	}
	return CloneMap(s.merged)
}

// Origin returns the source of the layer that supplies the effective value
// at path.
func (s *Stack) Origin(path string) (Source, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.layers) - 1; i >= 0; i-- {
		if _, ok := GetByPath(s.layers[i].Data, path); ok {
			return s.layers[i].Source, true
		}
	}
	return 0, false
}

// find must be called with s.mu held.
func (s *Stack) find(source Source) *Layer {
	for _, l := range s.layers {
		if l.Source == source {
			return l
		}
	}
	return nil
}
