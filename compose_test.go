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
	"github.com/sirupsen/logrus/hooks/test"

	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/lenition/internal/debug"
)

func TestPlaceAccent(t *testing.T) {
	tall := funit.Rect16{LLx: 0, LLy: 0, URx: 1000, URy: 1579}
	short := funit.Rect16{LLx: 0, LLy: 0, URx: 1000, URy: 1000}
	dot := funit.Rect16{LLx: 242, LLy: 1303, URx: 439, URy: 1500}

	cases := []struct {
		name   string
		base   funit.Rect16
		ref    funit.Int16
		gap    float64
		italic float64
		dx, dy float64
	}{
		{"tall letter", tall, 1086, 100, 0, 160, 493},
		{"short letter", short, 1086, 100, 0, 160, 0},
		{"no reference height", tall, 0, 100, 0, 160, 376},
		{"italic", tall, 1086, 100, -12, 264, 493},
	}
	for _, c := range cases {
		dx, dy := placeAccent(c.base, dot, c.ref, c.gap, c.italic)
		if dx != c.dx || dy != c.dy {
			t.Errorf("%s: got (%g, %g), want (%g, %g)", c.name, dx, dy, c.dx, c.dy)
		}
	}
}

func TestToInt16(t *testing.T) {
	cases := []struct {
		in   float64
		want funit.Int16
	}{
		{0, 0},
		{1.4, 1},
		{-1.6, -2},
		{40000, 32767},
		{-40000, -32768},
	}
	for _, c := range cases {
		if got := toInt16(c.in); got != c.want {
			t.Errorf("toInt16(%g) = %d, want %d", c.in, got, c.want)
		}
	}
	if got := toInt16(int32(-7)); got != -7 {
		t.Errorf("toInt16(-7) = %d", got)
	}
}

func TestUnionRect(t *testing.T) {
	a := funit.Rect16{LLx: 10, LLy: 0, URx: 500, URy: 1000}
	b := funit.Rect16{LLx: 200, LLy: 1100, URx: 300, URy: 1300}
	want := funit.Rect16{LLx: 10, LLy: 0, URx: 500, URy: 1300}
	if got := unionRect(a, b); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := unionRect(funit.Rect16{}, b); got != b {
		t.Errorf("got %v, want %v", got, b)
	}
	if got := shiftRect(funit.Rect16{}, 10, 10); got != (funit.Rect16{}) {
		t.Errorf("empty rectangle moved to %v", got)
	}
}

func TestAppendOutline(t *testing.T) {
	src := []cff.GlyphOp{
		{Op: cff.OpMoveTo, Args: []float64{1, 2}},
		{Op: cff.OpHintMask},
		{Op: cff.OpLineTo, Args: []float64{3, 4}},
		{Op: cff.OpCurveTo, Args: []float64{5, 6, 7, 8, 9, 10}},
	}
	want := []cff.GlyphOp{
		{Op: cff.OpMoveTo, Args: []float64{11, 22}},
		{Op: cff.OpLineTo, Args: []float64{13, 24}},
		{Op: cff.OpCurveTo, Args: []float64{15, 26, 17, 28, 19, 30}},
	}
	got := appendOutline(nil, src, 10, 20)
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}

	// the source must not be modified
	if src[0].Args[0] != 1 {
		t.Error("source was modified")
	}
}

func TestComposeGlyf(t *testing.T) {
	font := debug.GoRegular()
	log, _ := test.NewNullLogger()
	a := &augmenter{font: font, idx: newGlyphIndex(font), log: log}
	o := font.Outlines.(*glyf.Outlines)

	base := mustMap(t, a.idx, 'b')
	dot := mustMap(t, a.idx, 0x02D9)
	numGlyphs := font.NumGlyphs()

	gid := a.composeGlyf(o, base, dot, 10, 500, "bdot")
	if int(gid) != numGlyphs || font.NumGlyphs() != numGlyphs+1 {
		t.Fatalf("new glyph %d, %d glyphs", gid, font.NumGlyphs())
	}
	if name := font.GlyphName(gid); name != "bdot" {
		t.Errorf("wrong name %q", name)
	}
	if o.Widths[gid] != o.Widths[base] {
		t.Errorf("wrong width %d != %d", o.Widths[gid], o.Widths[base])
	}

	comp, ok := o.Glyphs[gid].Data.(glyf.CompositeGlyph)
	if !ok || len(comp.Components) != 2 {
		t.Fatalf("not a composite glyph: %v", o.Glyphs[gid].Data)
	}
	var children []glyph.ID
	for _, c := range comp.Components {
		children = append(children, c.GlyphIndex)
	}
	if d := cmp.Diff([]glyph.ID{base, dot}, children); d != "" {
		t.Error(d)
	}

	box := font.GlyphBBox(gid)
	baseBox := font.GlyphBBox(base)
	dotBox := font.GlyphBBox(dot)
	if box.LLy != baseBox.LLy || box.URy != dotBox.URy+500 {
		t.Errorf("wrong bounding box %v", box)
	}

	if m := o.Maxp; m != nil {
		if int(m.MaxComponentElements) < 2 || int(m.MaxComponentDepth) < 1 {
			t.Errorf("maxp not updated: %v", m)
		}
		points, contours := outlineSize(o.Glyphs, gid, 0)
		if int(m.MaxCompositePoints) < points || int(m.MaxCompositeContours) < contours {
			t.Errorf("maxp not updated: %v", m)
		}
	}
}

func TestOutlineSize(t *testing.T) {
	font := debug.GoRegular()
	o := font.Outlines.(*glyf.Outlines)
	idx := newGlyphIndex(font)

	// "o" has an outer and an inner contour
	gid := mustMap(t, idx, 'o')
	points, contours := outlineSize(o.Glyphs, gid, 0)
	if contours != 2 || points < 8 {
		t.Errorf("'o' has %d contours, %d points", contours, points)
	}
	if d := componentDepth(o.Glyphs, gid, 0); d != 0 {
		t.Errorf("simple glyph has depth %d", d)
	}
}

func TestComposeCFF(t *testing.T) {
	font := debug.MakeCFFFont("bx\u02D9")
	log, _ := test.NewNullLogger()
	a := &augmenter{font: font, idx: newGlyphIndex(font), log: log}
	o := font.Outlines.(*cff.Outlines)

	base := mustMap(t, a.idx, 'b')
	dot := mustMap(t, a.idx, 0x02D9)
	gid := a.composeCFF(o, base, dot, 0, 100, "bdot")

	g := o.Glyphs[gid]
	if g.Name != "bdot" || g.Width != o.Glyphs[base].Width {
		t.Errorf("wrong glyph header %q %v", g.Name, g.Width)
	}
	want := appendOutline(appendOutline(nil, o.Glyphs[base].Cmds, 0, 0), o.Glyphs[dot].Cmds, 0, 100)
	if d := cmp.Diff(want, g.Cmds); d != "" {
		t.Error(d)
	}
	if len(g.HStem) != 0 || len(g.VStem) != 0 {
		t.Error("hints were kept")
	}

	dotBox := font.GlyphBBox(dot)
	if box := font.GlyphBBox(gid); box.URy != dotBox.URy+100 {
		t.Errorf("wrong bounding box %v", box)
	}
}
