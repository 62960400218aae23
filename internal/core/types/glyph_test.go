package types

import "testing"

func TestMakeGlyph(t *testing.T) {
	tests := []struct {
		name  string
		color uint32
		char  byte
	}{
		{"at_white", 0xFFFFFF, '@'},
		{"orc_green", 0x00AA00, 'o'},
		{"wall_gray", 0x808080, '#'},
		{"zero", 0x000000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := MakeGlyph(tt.color, tt.char)
			if got := g.Color(); got != tt.color {
				t.Errorf("Color() = %06X, want %06X", got, tt.color)
			}
			if got := g.Char(); got != tt.char {
				t.Errorf("Char() = %q, want %q", got, tt.char)
			}
		})
	}
}

func TestMakeGlyph_DropsAlpha(t *testing.T) {
	g := MakeGlyph(0xFF123456, 'x')
	if got := g.Color(); got != 0x123456 {
		t.Errorf("Color() = %06X, want 123456", got)
	}
}

func TestGlyph_Dim(t *testing.T) {
	g := MakeGlyph(0x80FF40, '#')
	dim := g.Dim()

	if dim.Char() != g.Char() {
		t.Errorf("Dim changed char: %q -> %q", g.Char(), dim.Char())
	}
	if got, want := dim.Color(), uint32(0x407F20); got != want {
		t.Errorf("Dim color = %06X, want %06X", got, want)
	}
	// Повторное затемнение не паникует и продолжает темнеть.
	if dd := dim.Dim().Color(); dd >= dim.Color() {
		t.Errorf("second Dim did not darken: %06X -> %06X", dim.Color(), dd)
	}
}

func TestGlyph_HexColor(t *testing.T) {
	g := MakeGlyph(0x00FF7F, '$')
	if got := g.HexColor(); got != "#00FF7F" {
		t.Errorf("HexColor() = %q, want #00FF7F", got)
	}
}

func TestGlyph_String_NonPrintable(t *testing.T) {
	g := MakeGlyph(0x111111, 0x07)
	s := g.String()
	if !contains(s, "\\x07") {
		t.Errorf("String() = %q, want escaped char", s)
	}
}
