package scaling

import (
	"fmt"
	"sort"
)

// LabelEncoder maps categorical string values to integer codes. Classes are
// assigned codes in lexicographic order, so encoding is stable across runs.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// Fit learns the class set from values.
func (e *LabelEncoder) Fit(values []string) {
	seen := map[string]struct{}{}
	for _, v := range values {
		seen[v] = struct{}{}
	}
	e.classes = make([]string, 0, len(seen))
	for v := range seen {
		e.classes = append(e.classes, v)
	}
	sort.Strings(e.classes)
	e.index = make(map[string]int, len(e.classes))
	for i, c := range e.classes {
		e.index[c] = i
	}
}

// Classes returns the learned classes in code order.
func (e *LabelEncoder) Classes() []string { return e.classes }

// Transform returns the code for v.
func (e *LabelEncoder) Transform(v string) (int, error) {
	code, ok := e.index[v]
	if !ok {
		return 0, fmt.Errorf("unknown class %q", v)
	}
	return code, nil
}

// Inverse returns the class for a code.
func (e *LabelEncoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("code %d out of range", code)
	}
	return e.classes[code], nil
}
