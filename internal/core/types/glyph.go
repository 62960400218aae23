package types

import (
	"fmt"
)

// Glyph — упакованный цветной символ тайла или сущности.
//
// Формат (32 бита):
//
//	[0:8]  — символ (ASCII)      — маска 0xFF
//	[8:32] — цвет RGB (0xRRGGBB) — маска 0xFFFFFF
type Glyph uint32

const (
	bitsChar  = 8
	bitsColor = 24

	shiftColor = bitsChar

	maskChar  = (1 << bitsChar) - 1
	maskColor = (1 << bitsColor) - 1
)

// MakeGlyph собирает Glyph из RGB-цвета (0xRRGGBB) и ASCII-символа.
// Старший байт цвета (альфа) отбрасывается.
func MakeGlyph(colorRGB uint32, char byte) Glyph {
	return Glyph((colorRGB&maskColor)<<shiftColor | (uint32(char) & maskChar))
}

// Color извлекает 24-битный RGB-цвет.
func (g Glyph) Color() uint32 {
	return uint32(g>>shiftColor) & maskColor
}

// Char извлекает символ.
func (g Glyph) Char() byte {
	return byte(g & maskChar)
}

// Dim возвращает тот же символ с цветом, приглушенным вдвое по каждому
// каналу. Так рендерятся исследованные, но не видимые сейчас тайлы
// (туман войны).
func (g Glyph) Dim() Glyph {
	c := g.Color()
	r := ((c >> 16) & 0xFF) / 2
	gr := ((c >> 8) & 0xFF) / 2
	b := (c & 0xFF) / 2
	return MakeGlyph(r<<16|gr<<8|b, g.Char())
}

// HexColor возвращает цвет строкой вида "#00FF00" (для web-протокола).
func (g Glyph) HexColor() string {
	return fmt.Sprintf("#%06X", g.Color())
}

// String реализует fmt.Stringer: "Glyph{char='A', color=#FFA500}".
func (g Glyph) String() string {
	char := g.Char()
	charStr := string([]byte{char})
	if char < 32 || char > 126 {
		charStr = fmt.Sprintf("\\x%02X", char)
	}
	return fmt.Sprintf("Glyph{char='%s', color=%s}", charStr, g.HexColor())
}
