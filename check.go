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
	"bytes"
	"fmt"

	xsfnt "golang.org/x/image/font/sfnt"
	"golang.org/x/text/language"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyph"
)

// Irish is the language used to test the ligature rules.
var Irish = language.MustParse("ga")

// Problem describes a letter which does not work as expected.
type Problem struct {
	Letter Letter

	// Input is the text which was shaped, or empty for problems which
	// are not related to a ligature rule.
	Input string

	Msg string
}

func (p Problem) String() string {
	if p.Input == "" {
		return fmt.Sprintf("%s: %s", p.Letter.Name, p.Msg)
	}
	return fmt.Sprintf("%s: %q %s", p.Letter.Name, p.Input, p.Msg)
}

// Check verifies that the dotted letters are mapped in the character map
// and that the "liga" feature turns every input sequence into the dotted
// glyph.  Letters which have no glyph in the font are ignored.
func Check(font *sfnt.Font, letters []Letter) []Problem {
	if letters == nil {
		letters = All()
	}

	lay, err := font.NewLayouter(Irish, map[string]bool{DefaultFeature: true}, nil)
	if err != nil {
		return []Problem{{Msg: "cannot shape text: " + err.Error()}}
	}
	idx := newGlyphIndex(font)

	var res []Problem
	for _, l := range letters {
		gid, ok := idx.MappedRune(l.Dotted)
		if !ok {
			if _, named := idx.Name(l.Name); named {
				res = append(res, Problem{Letter: l, Msg: fmt.Sprintf("%U is not mapped", l.Dotted)})
			}
			continue
		}

	seqLoop:
		for _, seq := range l.Sequences() {
			for _, r := range seq {
				if _, ok := idx.MappedRune(r); !ok {
					continue seqLoop
				}
			}
			in := string(seq)
			out := lay.Layout(in)
			if len(out) != 1 {
				res = append(res, Problem{
					Letter: l,
					Input:  in,
					Msg:    fmt.Sprintf("gives %d glyphs instead of 1", len(out)),
				})
			} else if out[0].GID != gid {
				res = append(res, Problem{
					Letter: l,
					Input:  in,
					Msg: fmt.Sprintf("gives glyph %d (%s) instead of %d (%s)",
						out[0].GID, font.GlyphName(out[0].GID), gid, font.GlyphName(gid)),
				})
			}
		}
	}
	return res
}

// CheckFile parses an encoded font and runs [Check].  In addition, the
// character map is decoded by an independent parser and compared.
func CheckFile(data []byte, letters []Letter) ([]Problem, error) {
	if letters == nil {
		letters = All()
	}

	font, err := sfnt.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	res := Check(font, letters)

	other, err := xsfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("cross-check: %w", err)
	}
	if other.NumGlyphs() != font.NumGlyphs() {
		res = append(res, Problem{
			Msg: fmt.Sprintf("glyph count mismatch: %d vs %d",
				font.NumGlyphs(), other.NumGlyphs()),
		})
	}

	idx := newGlyphIndex(font)
	buf := &xsfnt.Buffer{}
	for _, l := range letters {
		gid, _ := idx.MappedRune(l.Dotted)
		xgid, err := other.GlyphIndex(buf, l.Dotted)
		if err != nil {
			res = append(res, Problem{Letter: l, Msg: "cross-check: " + err.Error()})
			continue
		}
		if glyph.ID(xgid) != gid {
			res = append(res, Problem{
				Letter: l,
				Msg:    fmt.Sprintf("cmap entries disagree: %d vs %d", gid, xgid),
			})
		}
	}
	return res, nil
}
