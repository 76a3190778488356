package scaling

import "testing"

func TestLabelEncoder(t *testing.T) {
	var e LabelEncoder
	e.Fit([]string{"Model B", "Model A", "Model B", "Model C"})

	classes := e.Classes()
	want := []string{"Model A", "Model B", "Model C"}
	if len(classes) != len(want) {
		t.Fatalf("classes = %v", classes)
	}
	for i, c := range want {
		if classes[i] != c {
			t.Fatalf("classes = %v, want %v", classes, want)
		}
	}

	code, err := e.Transform("Model B")
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if code != 1 {
		t.Fatalf("code = %d", code)
	}
	back, err := e.Inverse(code)
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}
	if back != "Model B" {
		t.Fatalf("inverse = %q", back)
	}
}

func TestLabelEncoderUnknown(t *testing.T) {
	var e LabelEncoder
	e.Fit([]string{"a"})
	if _, err := e.Transform("b"); err == nil {
		t.Fatalf("expected error for unknown class")
	}
	if _, err := e.Inverse(5); err == nil {
		t.Fatalf("expected error for out-of-range code")
	}
}
