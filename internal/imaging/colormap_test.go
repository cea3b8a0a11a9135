package imaging

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColormap_Bare(t *testing.T) {
	table, err := ParseColormap(strings.NewReader(`
; black to white
#000000
#FFFFFF
`))
	if err != nil {
		t.Fatalf("ParseColormap failed: %v", err)
	}
	if len(table) != ColormapLevels {
		t.Fatalf("got %d entries, want %d", len(table), ColormapLevels)
	}
	if table[0] != (color.NRGBA{0, 0, 0, 255}) || table[255] != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("ends: got %v and %v", table[0], table[255])
	}
	for i := 1; i < len(table); i++ {
		if table[i].R < table[i-1].R {
			t.Fatalf("gray ramp not monotonic at level %d", i)
		}
	}
}

func TestParseColormap_Pinned(t *testing.T) {
	table, err := ParseColormap(strings.NewReader("200 #0000FF\n50 #FF0000\n"))
	if err != nil {
		t.Fatalf("ParseColormap failed: %v", err)
	}

	tests := []struct {
		level int
		want  color.NRGBA
	}{
		{0, color.NRGBA{255, 0, 0, 255}},
		{50, color.NRGBA{255, 0, 0, 255}},
		{200, color.NRGBA{0, 0, 255, 255}},
		{255, color.NRGBA{0, 0, 255, 255}},
	}
	for _, tt := range tests {
		if table[tt.level] != tt.want {
			t.Errorf("level %d: got %v, want %v", tt.level, table[tt.level], tt.want)
		}
	}
	mid := table[125]
	if mid == table[50] || mid == table[200] {
		t.Errorf("level 125 should be blended, got %v", mid)
	}
}

func TestParseColormap_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", "; nothing\n"},
		{"mixed", "#000000\n10 #FFFFFF\n"},
		{"bad hex", "#GG0000\n"},
		{"level range", "256 #FFFFFF\n"},
		{"extra fields", "1 #000000 more\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseColormap(strings.NewReader(tt.text)); err == nil {
				t.Error("ParseColormap should fail")
			}
		})
	}
}

func TestLoadColormap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heat.cmap")
	if err := os.WriteFile(path, []byte("#000000\n#FF0000\n#FFFF00\n"), 0o644); err != nil {
		t.Fatalf("failed to write colormap: %v", err)
	}

	table, err := LoadColormap(path)
	if err != nil {
		t.Fatalf("LoadColormap failed: %v", err)
	}
	if table[127] != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("middle control point: got %v", table[127])
	}

	if _, err := LoadColormap(filepath.Join(t.TempDir(), "missing.cmap")); err == nil {
		t.Error("LoadColormap should fail for a missing file")
	}
}
