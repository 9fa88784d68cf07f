// seehuhn.de/go/lenition - add Irish lenition glyphs and ligatures to fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package lenition

import (
	"fmt"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DotAbove is the combining mark used by all lenited letters.
const DotAbove = '\u0307'

// Letter describes one consonant which can carry the dot of lenition.
type Letter struct {
	Base   rune   // the plain consonant, e.g. 'b'
	Dotted rune   // the precomposed letter, e.g. 'ḃ'
	Name   string // glyph name used for newly created glyphs
}

// Lowercase lists the lowercase letters which take a dot in Irish
// orthography.
var Lowercase = []Letter{
	{'b', 'ḃ', "bdot"},
	{'c', 'ċ', "cdot"},
	{'d', 'ḋ', "ddot"},
	{'f', 'ḟ', "fdot"},
	{'g', 'ġ', "gdot"},
	{'m', 'ṁ', "mdot"},
	{'p', 'ṗ', "pdot"},
	{'s', 'ṡ', "sdot"},
	{'t', 'ṫ', "tdot"},
}

// Uppercase lists the capital forms of the letters in [Lowercase].
var Uppercase = []Letter{
	{'B', 'Ḃ', "Bdot"},
	{'C', 'Ċ', "Cdot"},
	{'D', 'Ḋ', "Ddot"},
	{'F', 'Ḟ', "Fdot"},
	{'G', 'Ġ', "Gdot"},
	{'M', 'Ṁ', "Mdot"},
	{'P', 'Ṗ', "Pdot"},
	{'S', 'Ṡ', "Sdot"},
	{'T', 'Ṫ', "Tdot"},
}

// All returns the lowercase letters followed by the uppercase letters.
func All() []Letter {
	res := make([]Letter, 0, len(Lowercase)+len(Uppercase))
	res = append(res, Lowercase...)
	res = append(res, Uppercase...)
	return res
}

// IsUpper reports whether l is a capital letter.
func (l Letter) IsUpper() bool {
	return unicode.IsUpper(l.Base)
}

// Sequences returns the input sequences which are replaced by the dotted
// letter.  Lenition is written as a following "h", so "bh" becomes "ḃ".
// Capitals match both the all-caps form "BH" and the title case form "Bh".
func (l Letter) Sequences() [][]rune {
	if l.IsUpper() {
		return [][]rune{{l.Base, 'H'}, {l.Base, 'h'}}
	}
	return [][]rune{{l.Base, 'h'}}
}

func (l Letter) String() string {
	return fmt.Sprintf("%c → %c (%s)", l.Base, l.Dotted, l.Name)
}

// Decompose returns the canonical decomposition of the dotted letter.
// The result is ok only if the decomposition consists of exactly one
// base character followed by one combining mark.
func (l Letter) Decompose() (base, mark rune, ok bool) {
	rr := []rune(norm.NFD.String(string(l.Dotted)))
	if len(rr) != 2 {
		return 0, 0, false
	}
	return rr[0], rr[1], true
}

// Validate checks a letter table for consistency.  Every dotted letter must
// decompose into its base letter followed by U+0307, and glyph names must be
// non-empty and unique.
func Validate(letters []Letter) error {
	names := make(map[string]bool, len(letters))
	for _, l := range letters {
		base, mark, ok := l.Decompose()
		if !ok || base != l.Base || mark != DotAbove {
			return fmt.Errorf("lenition: %U does not decompose to %q + U+0307",
				l.Dotted, l.Base)
		}
		if l.Name == "" {
			return fmt.Errorf("lenition: missing glyph name for %U", l.Dotted)
		}
		if names[l.Name] {
			return fmt.Errorf("lenition: duplicate glyph name %q", l.Name)
		}
		names[l.Name] = true
	}
	return nil
}
