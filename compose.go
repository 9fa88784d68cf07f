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
	"math"

	"golang.org/x/exp/constraints"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/postscript/funit"

	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
)

// Method describes how a dotted glyph was assembled.
type Method int

// These are the supported composition methods.
const (
	// MethodNone is used for glyphs which were present in the font.
	MethodNone Method = iota

	// MethodMark places the combining dot above (U+0307) on the base letter.
	MethodMark

	// MethodSpacing places the spacing dot accent (U+02D9) on the base
	// letter.  This is used when the font has no combining mark.
	MethodSpacing
)

func (m Method) String() string {
	switch m {
	case MethodNone:
		return "-"
	case MethodMark:
		return "mark"
	case MethodSpacing:
		return "spacing"
	default:
		return "invalid"
	}
}

const spacingDotAccent = '\u02D9'

// accent is a glyph which can be placed above a base letter.
type accent struct {
	GID    glyph.ID
	Method Method

	// RefHeight is the height of the letters the accent was designed for.
	// The accent is moved up by the amount the base letter exceeds this.
	RefHeight funit.Int16
}

// findAccent locates the dot to use for the given letter.  Capital variants
// (".case") are preferred for uppercase letters.  The combining mark from
// the canonical decomposition is tried first, and the spacing dot accent
// is used as a fallback.
func (a *augmenter) findAccent(l Letter) (accent, bool) {
	_, mark, ok := l.Decompose()
	if !ok {
		mark = DotAbove
	}

	upper := l.IsUpper()
	if upper {
		if gid, ok := a.idx.Name("uni0307.case", "dotaccentcmb.case"); ok {
			return accent{gid, MethodMark, a.capHeight()}, true
		}
	}
	if gid, ok := a.idx.Rune(mark); ok {
		return accent{gid, MethodMark, a.xHeight()}, true
	}
	if gid, ok := a.idx.Name("uni0307", "dotaccentcmb"); ok {
		return accent{gid, MethodMark, a.xHeight()}, true
	}

	if upper {
		if gid, ok := a.idx.Name("dotaccent.case", "dotaccent.cap"); ok {
			return accent{gid, MethodSpacing, a.capHeight()}, true
		}
	}
	if gid, ok := a.idx.Rune(spacingDotAccent); ok {
		return accent{gid, MethodSpacing, a.xHeight()}, true
	}
	if gid, ok := a.idx.Name("dotaccent"); ok {
		return accent{gid, MethodSpacing, a.xHeight()}, true
	}
	return accent{}, false
}

func (a *augmenter) xHeight() funit.Int16 {
	if a.font.XHeight > 0 {
		return a.font.XHeight
	}
	if gid, ok := a.idx.Rune('x'); ok {
		return a.font.GlyphBBox(gid).URy
	}
	return 0
}

func (a *augmenter) capHeight() funit.Int16 {
	if a.font.CapHeight > 0 {
		return a.font.CapHeight
	}
	if gid, ok := a.idx.Rune('H'); ok {
		return a.font.GlyphBBox(gid).URy
	}
	return 0
}

// placeAccent computes the offset which moves the accent above the base
// glyph.
//
// If refHeight is not positive, the accent is put a small gap above the
// top of the base glyph.
func placeAccent(base, acc funit.Rect16, refHeight funit.Int16, gap, italicAngle float64) (dx, dy float64) {
	if refHeight > 0 {
		if base.URy > refHeight {
			dy = float64(base.URy) - float64(refHeight)
		}
	} else {
		dy = float64(base.URy) + gap - float64(acc.LLy)
	}

	dx = (float64(base.LLx)+float64(base.URx))/2 - (float64(acc.LLx)+float64(acc.URx))/2
	if italicAngle != 0 && dy != 0 {
		dx -= dy * math.Tan(italicAngle/180*math.Pi)
	}
	return math.Round(dx), math.Round(dy)
}

// toInt16 rounds x to the nearest font unit, clamped to the int16 range.
func toInt16[T constraints.Integer | constraints.Float](x T) funit.Int16 {
	v := math.Round(float64(x))
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return funit.Int16(v)
}

// shiftRect moves r by (dx, dy).  The empty rectangle is left unchanged.
func shiftRect(r funit.Rect16, dx, dy float64) funit.Rect16 {
	if r == (funit.Rect16{}) {
		return r
	}
	ix, iy := toInt16(dx), toInt16(dy)
	return funit.Rect16{
		LLx: r.LLx + ix,
		LLy: r.LLy + iy,
		URx: r.URx + ix,
		URy: r.URy + iy,
	}
}

// unionRect returns the smallest rectangle containing a and b.  Empty
// rectangles, as used for blank glyphs, are ignored.
func unionRect(a, b funit.Rect16) funit.Rect16 {
	if a == (funit.Rect16{}) {
		return b
	}
	if b == (funit.Rect16{}) {
		return a
	}
	return funit.Rect16{
		LLx: min(a.LLx, b.LLx),
		LLy: min(a.LLy, b.LLy),
		URx: max(a.URx, b.URx),
		URy: max(a.URy, b.URy),
	}
}

// composeGlyf appends a composite glyph made from the base glyph and the
// accent, moved by (dx, dy).  The new glyph uses the metrics of the base.
func (a *augmenter) composeGlyf(o *glyf.Outlines, base, acc glyph.ID, dx, dy float64, name string) glyph.ID {
	baseComp := glyf.ComponentUnpacked{
		Child:        base,
		Trfm:         matrix.Matrix{1, 0, 0, 1, 0, 0},
		UseMyMetrics: true,
	}
	accComp := glyf.ComponentUnpacked{
		Child:         acc,
		Trfm:          matrix.Matrix{1, 0, 0, 1, dx, dy},
		RoundXYToGrid: true,
	}

	bbox := unionRect(a.font.GlyphBBox(base), shiftRect(a.font.GlyphBBox(acc), dx, dy))

	g := &glyf.Glyph{
		Rect16: bbox,
		Data: glyf.CompositeGlyph{
			Components: []glyf.GlyphComponent{baseComp.Pack(), accComp.Pack()},
		},
	}

	gid := glyph.ID(len(o.Glyphs))
	o.Glyphs = append(o.Glyphs, g)
	if o.Widths != nil {
		o.Widths = append(o.Widths, o.Widths[base])
	}
	if o.Names != nil {
		o.Names = append(o.Names, name)
	}
	updateMaxp(o, gid)
	return gid
}

// updateMaxp raises the composite glyph limits in the "maxp" table, so that
// they cover the glyph gid.
func updateMaxp(o *glyf.Outlines, gid glyph.ID) {
	m := o.Maxp
	if m == nil {
		return
	}
	g := o.Glyphs[gid]
	comp, ok := g.Data.(glyf.CompositeGlyph)
	if !ok {
		return
	}

	raise(&m.MaxComponentElements, len(comp.Components))
	raise(&m.MaxComponentDepth, componentDepth(o.Glyphs, gid, 0))
	points, contours := outlineSize(o.Glyphs, gid, 0)
	raise(&m.MaxCompositePoints, points)
	raise(&m.MaxCompositeContours, contours)
}

// raise increases *p to at least v.
func raise[T constraints.Integer](p *T, v int) {
	if int(*p) < v {
		*p = T(v)
	}
}

// maxNesting bounds the recursion into composite glyphs.  Valid fonts
// rarely go beyond two levels.
const maxNesting = 16

func componentDepth(gg glyf.Glyphs, gid glyph.ID, level int) int {
	if int(gid) >= len(gg) || gg[gid] == nil || level > maxNesting {
		return 0
	}
	comp, ok := gg[gid].Data.(glyf.CompositeGlyph)
	if !ok {
		return 0
	}
	depth := 0
	for _, c := range comp.Components {
		depth = max(depth, componentDepth(gg, c.GlyphIndex, level+1))
	}
	return depth + 1
}

// outlineSize returns the number of points and contours of a glyph, after
// all components have been resolved.
func outlineSize(gg glyf.Glyphs, gid glyph.ID, level int) (points, contours int) {
	if int(gid) >= len(gg) || gg[gid] == nil || level > maxNesting {
		return 0, 0
	}
	switch g := gg[gid].Data.(type) {
	case glyf.SimpleGlyph:
		n := int(g.NumContours)
		if n <= 0 || len(g.Encoded) < 2*n {
			return 0, 0
		}
		// The glyph data starts with the end point index of every contour.
		last := int(g.Encoded[2*n-2])<<8 | int(g.Encoded[2*n-1])
		return last + 1, n
	case glyf.CompositeGlyph:
		for _, comp := range g.Components {
			p, c := outlineSize(gg, comp.GlyphIndex, level+1)
			points += p
			contours += c
		}
	}
	return points, contours
}

// composeCFF appends a glyph whose outline is the base outline followed by
// the accent outline moved by (dx, dy).  Hints are dropped, since the
// stem hints of the two parts cannot be merged in general.
func (a *augmenter) composeCFF(o *cff.Outlines, base, acc glyph.ID, dx, dy float64, name string) glyph.ID {
	b := o.Glyphs[base]
	g := &cff.Glyph{}
	*g = *b
	g.Name = name
	g.HStem = nil
	g.VStem = nil
	g.Cmds = make([]cff.GlyphOp, 0, len(b.Cmds)+len(o.Glyphs[acc].Cmds))
	g.Cmds = appendOutline(g.Cmds, b.Cmds, 0, 0)
	g.Cmds = appendOutline(g.Cmds, o.Glyphs[acc].Cmds, dx, dy)

	gid := glyph.ID(len(o.Glyphs))
	o.Glyphs = append(o.Glyphs, g)

	if o.IsCIDKeyed() {
		if len(o.GIDToCID) > 0 {
			next := o.GIDToCID[0]
			for _, cid := range o.GIDToCID {
				if cid >= next {
					next = cid + 1
				}
			}
			o.GIDToCID = append(o.GIDToCID, next)
		}
		a.setFD(o, gid, o.FDSelect(base))
	}

	return gid
}

// setFD makes the new glyph gid use the private dictionary fd.
func (a *augmenter) setFD(o *cff.Outlines, gid glyph.ID, fd int) {
	if a.fd == nil {
		a.fd = make(map[glyph.ID]int)
		orig := o.FDSelect
		o.FDSelect = func(gid glyph.ID) int {
			if fd, ok := a.fd[gid]; ok {
				return fd
			}
			return orig(gid)
		}
	}
	a.fd[gid] = fd
}

// appendOutline appends the drawing commands from src to dst, moved by
// (dx, dy).  Hint masks are omitted.
func appendOutline(dst, src []cff.GlyphOp, dx, dy float64) []cff.GlyphOp {
	for _, cmd := range src {
		switch cmd.Op {
		case cff.OpMoveTo, cff.OpLineTo, cff.OpCurveTo:
			args := make([]float64, len(cmd.Args))
			for i, x := range cmd.Args {
				if i%2 == 0 {
					args[i] = x + dx
				} else {
					args[i] = x + dy
				}
			}
			dst = append(dst, cff.GlyphOp{Op: cmd.Op, Args: args})
		}
	}
	return dst
}
