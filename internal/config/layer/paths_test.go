package layer

import (
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"scroll":  map[string]any{"intensity": 4.0, "enabled": true},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"scroll":   map[string]any{"intensity": 10.0},
		"logging":  "flat",
		"viewport": map[string]any{"linePixels": int64(20)},
	}

	got := DeepMerge(dst, src)
	want := map[string]any{
		"scroll":   map[string]any{"intensity": 10.0, "enabled": true},
		"logging":  "flat",
		"viewport": map[string]any{"linePixels": int64(20)},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DeepMerge() = %v, want %v", got, want)
	}
}

func TestDeepMerge_NilDst(t *testing.T) {
	got := DeepMerge(nil, map[string]any{"a": 1})
	if got["a"] != 1 {
		t.Errorf("DeepMerge(nil, ...) = %v", got)
	}
}

func TestGetByPath(t *testing.T) {
	data := map[string]any{
		"scroll": map[string]any{
			"intensity": 4.0,
		},
		"flat": 3,
	}

	tests := []struct {
		path  string
		want  any
		found bool
	}{
		{"scroll.intensity", 4.0, true},
		{"flat", 3, true},
		{"scroll.missing", nil, false},
		{"flat.deeper", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		got, ok := GetByPath(data, tt.path)
		if ok != tt.found || got != tt.want {
			t.Errorf("GetByPath(%q) = %v, %v; want %v, %v", tt.path, got, ok, tt.want, tt.found)
		}
	}
}

func TestSetByPath(t *testing.T) {
	data := map[string]any{"flat": 1}

	if err := SetByPath(data, "scroll.intensity", 4.0); err != nil {
		t.Fatalf("SetByPath: %v", err)
	}
	if v, _ := GetByPath(data, "scroll.intensity"); v != 4.0 {
		t.Errorf("scroll.intensity = %v, want 4", v)
	}
	if err := SetByPath(data, "flat.deeper", 1); err != ErrInvalidPath {
		t.Errorf("SetByPath through scalar error = %v, want ErrInvalidPath", err)
	}
	if err := SetByPath(data, "..", 1); err != ErrInvalidPath {
		t.Errorf("SetByPath(\"..\") error = %v, want ErrInvalidPath", err)
	}
}

func TestFlatten(t *testing.T) {
	got := Flatten(map[string]any{
		"scroll": map[string]any{
			"intensity": 4.0,
			"enabled":   true,
		},
		"top": "x",
	})
	want := map[string]any{
		"scroll.intensity": 4.0,
		"scroll.enabled":   true,
		"top":              "x",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten() = %v, want %v", got, want)
	}
}

func TestDiff(t *testing.T) {
	old := map[string]any{
		"scroll": map[string]any{
			"intensity":    4.0,
			"enabled":      true,
			"deceleration": 6.0,
		},
	}
	new := map[string]any{
		"scroll": map[string]any{
			"intensity":   8.0,
			"enabled":     true,
			"pauseOnCtrl": false,
		},
	}

	got := Diff(old, new)
	want := []string{"scroll.deceleration", "scroll.intensity", "scroll.pauseOnCtrl"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Diff() = %v, want %v", got, want)
	}

	if d := Diff(old, CloneMap(old)); len(d) != 0 {
		t.Errorf("Diff of equal maps = %v, want empty", d)
	}
}
