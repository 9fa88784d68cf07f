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

// Package debug provides fonts for use in unit tests.
package debug

import (
	"bytes"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/postscript/type1"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/os2"
)

// GoRegular returns a fresh copy of the Go Regular font.
// The font uses TrueType outlines.  The file has no GSUB table, so the
// reader fills in the standard "liga" ligatures for "latn/dflt".
func GoRegular() *sfnt.Font {
	font, err := sfnt.Read(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic(err)
	}
	return font
}

// MakeCFFFont creates a font with CFF outlines, which contains the glyphs
// for the given characters from Go Regular.  Characters which Go Regular
// does not have are left out.
func MakeCFFFont(text string) *sfnt.Font {
	info := GoRegular()

	fontCMap, err := info.CMapTable.GetBest()
	if err != nil {
		panic(err)
	}

	var includeGid []glyph.ID
	cmap := cmap.Format4{}
	encoding := make([]glyph.ID, 256)

	includeGid = append(includeGid, 0)
	if gid := fontCMap.Lookup(' '); gid != 0 {
		cmap[' '] = glyph.ID(len(includeGid))
		encoding[' '] = glyph.ID(len(includeGid))
		includeGid = append(includeGid, gid)
	}

	var topMin, topMax funit.Int16
	var bottomMin, bottomMax funit.Int16
	first := true
	for _, c := range text {
		gid := fontCMap.Lookup(c)
		if gid == 0 || c > 0xFFFF {
			continue
		}
		if _, seen := cmap[uint16(c)]; seen {
			continue
		}
		cmap[uint16(c)] = glyph.ID(len(includeGid))
		if c < 256 {
			encoding[c] = glyph.ID(len(includeGid))
		}
		includeGid = append(includeGid, gid)

		if c < 'A' || c > 'Z' || c == 'Q' {
			continue
		}
		ext := info.GlyphBBox(gid)
		if first || ext.URy < topMin {
			topMin = ext.URy
		}
		if first || ext.URy > topMax {
			topMax = ext.URy
		}
		if first || ext.LLy < bottomMin {
			bottomMin = ext.LLy
		}
		if first || ext.LLy > bottomMax {
			bottomMax = ext.LLy
		}
		first = false
	}

	origOutlines := info.Outlines.(*glyf.Outlines)
	newOutlines := &cff.Outlines{
		Private: []*type1.PrivateDict{
			{
				BlueValues: []funit.Int16{
					bottomMin, bottomMax, topMin, topMax,
				},
				BlueScale: 0.039625,
				BlueShift: 7,
				BlueFuzz:  1,
			},
		},
		FDSelect: func(glyph.ID) int {
			return 0
		},
		Encoding: encoding,
	}

	for _, gid := range includeGid {
		origGlyph := origOutlines.Glyphs[gid]
		cffGlyph := cff.NewGlyph(info.GlyphName(gid), info.GlyphWidth(gid))

		if origGlyph != nil {
			glyphPath := origOutlines.Glyphs.Path(gid)
			for contour := range glyphPath.Contours() {
				cubicContour := path.ToCubic(contour)
				for cmd, pts := range cubicContour {
					switch cmd {
					case path.CmdMoveTo:
						cffGlyph.MoveTo(pts[0].X, pts[0].Y)
					case path.CmdLineTo:
						cffGlyph.LineTo(pts[0].X, pts[0].Y)
					case path.CmdCubeTo:
						cffGlyph.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
					case path.CmdClose:
						// CFF glyphs auto-close, no explicit close needed
					}
				}
			}
		}
		newOutlines.Glyphs = append(newOutlines.Glyphs, cffGlyph)
	}

	now := time.Now()
	res := &sfnt.Font{
		FamilyName: "Debug",
		Width:      info.Width,
		Weight:     info.Weight,
		IsRegular:  true,

		CodePageRange: 1 << os2.CP1252,

		Version:          0,
		CreationTime:     now,
		ModificationTime: now,

		UnitsPerEm: info.UnitsPerEm,
		FontMatrix: info.FontMatrix,

		Ascent:    info.Ascent,
		Descent:   info.Descent,
		LineGap:   info.LineGap,
		CapHeight: info.CapHeight,
		XHeight:   info.XHeight,

		UnderlinePosition:  info.UnderlinePosition,
		UnderlineThickness: info.UnderlineThickness,

		Outlines: newOutlines,
	}
	res.InstallCMap(cmap)

	return res
}

// AddCombiningDot adds a combining dot above (U+0307, "uni0307") to a font
// with TrueType outlines, built from the spacing "dotaccent" glyph.  The dot
// is placed a small gap above the x-height and has zero advance width.  If
// withCase is set, a variant "uni0307.case" for use over capitals is added
// as well.
//
// The function returns the glyph ID of the new combining dot.
func AddCombiningDot(font *sfnt.Font, withCase bool) glyph.ID {
	o := font.Outlines.(*glyf.Outlines)

	c, err := font.CMapTable.GetBest()
	if err != nil {
		panic(err)
	}
	dot := c.Lookup('\u02D9')
	if dot == 0 {
		panic("no dot accent")
	}
	dotBox := font.GlyphBBox(dot)
	gap := font.UnitsPerEm / 20

	add := func(name string, ref funit.Int16) glyph.ID {
		dy := float64(ref + funit.Int16(gap) - dotBox.LLy)
		comp := glyf.ComponentUnpacked{
			Child: dot,
			Trfm:  matrix.Matrix{1, 0, 0, 1, 0, dy},
		}
		box := dotBox
		box.LLy += funit.Int16(dy)
		box.URy += funit.Int16(dy)

		gid := glyph.ID(len(o.Glyphs))
		o.Glyphs = append(o.Glyphs, &glyf.Glyph{
			Rect16: box,
			Data: glyf.CompositeGlyph{
				Components: []glyf.GlyphComponent{comp.Pack()},
			},
		})
		o.Widths = append(o.Widths, 0)
		o.Names = append(o.Names, name)
		return gid
	}

	mark := add("uni0307", font.XHeight)
	if withCase {
		add("uni0307.case", font.CapHeight)
	}

	newCMap := cmap.Format4{}
	low, high := c.CodeRange()
	for r := low; r <= high && r <= 0xFFFF; r++ {
		if gid := c.Lookup(r); gid != 0 {
			newCMap[uint16(r)] = gid
		}
	}
	newCMap[0x0307] = mark
	font.InstallCMap(newCMap)

	return mark
}
