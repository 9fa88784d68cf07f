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
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/sfnt/cff"

	"seehuhn.de/go/lenition/internal/debug"
)

func TestCheckUnmodified(t *testing.T) {
	font := debug.GoRegular()

	// Only ċ, ġ, Ċ and Ġ exist, and there are no ligatures yet.
	var inputs []string
	for _, p := range Check(font, nil) {
		inputs = append(inputs, p.Input)
	}
	want := []string{"ch", "gh", "CH", "Ch", "GH", "Gh"}
	if d := cmp.Diff(want, inputs); d != "" {
		t.Error(d)
	}
}

func TestCheckUnmapped(t *testing.T) {
	font := debug.MakeCFFFont("bh\u02D9")
	a := &augmenter{font: font, idx: newGlyphIndex(font)}
	b := mustMap(t, a.idx, 'b')
	dot := mustMap(t, a.idx, 0x02D9)

	// a glyph called "bdot", without a cmap entry
	a.composeCFF(font.Outlines.(*cff.Outlines), b, dot, 0, 0, "bdot")

	problems := Check(font, Lowercase[:1])
	if len(problems) != 1 || problems[0].Input != "" {
		t.Errorf("problems: %v", problems)
	}
}

func TestCheckFile(t *testing.T) {
	problems, err := CheckFile(goregular.TTF, Lowercase[:1])
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) != 0 {
		t.Errorf("problems: %v", problems)
	}

	_, err = CheckFile([]byte("not a font"), nil)
	if err == nil {
		t.Error("invalid font accepted")
	}
}

func TestProblemString(t *testing.T) {
	p := Problem{Letter: Lowercase[0], Input: "bh", Msg: "gives 2 glyphs instead of 1"}
	want := `bdot: "bh" gives 2 glyphs instead of 1`
	if got := p.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	p = Problem{Letter: Lowercase[0], Msg: "U+1E03 is not mapped"}
	want = "bdot: U+1E03 is not mapped"
	if got := p.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
