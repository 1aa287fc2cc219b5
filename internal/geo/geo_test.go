package geo

import (
	"strings"
	"testing"
)

func TestParsePointOptional(t *testing.T) {
	b, err := ParsePoint("")
	if err != nil || b != nil {
		t.Fatalf("ParsePoint(\"\") = %v, %v, want nil, nil", b, err)
	}
	out, err := ToGeoJSON(nil)
	if err != nil || out != "" {
		t.Fatalf("ToGeoJSON(nil) = %q, %v, want empty", out, err)
	}
}

func TestPointRoundTrip(t *testing.T) {
	raw := `{"type":"Point","coordinates":[36.8219,-1.2921]}`

	b, err := ParsePoint(raw)
	if err != nil {
		t.Fatalf("ParsePoint: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("ParsePoint returned no bytes for a valid point")
	}

	out, err := ToGeoJSON(b)
	if err != nil {
		t.Fatalf("ToGeoJSON: %v", err)
	}
	if !strings.Contains(out, `"Point"`) {
		t.Errorf("round trip lost the geometry type: %s", out)
	}
	if !strings.Contains(out, "36.8219") || !strings.Contains(out, "-1.2921") {
		t.Errorf("round trip lost the coordinates: %s", out)
	}
}

func TestParsePointRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"{", "not json", `{"type":"Nope"}`} {
		if _, err := ParsePoint(raw); err == nil {
			t.Errorf("ParsePoint(%q) accepted invalid input", raw)
		}
	}
}
