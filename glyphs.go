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
	"github.com/benoitkugler/textlayout/fonts/glyphsnames"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// glyphIndex finds glyphs by character and by name.
type glyphIndex struct {
	cmap   cmap.Subtable
	byName map[string]glyph.ID

	// added holds mappings for glyphs created since the index was built.
	added map[rune]glyph.ID
}

func newGlyphIndex(font *sfnt.Font) *glyphIndex {
	idx := &glyphIndex{
		byName: make(map[string]glyph.ID),
		added:  make(map[rune]glyph.ID),
	}
	if font.CMapTable != nil {
		// A font without a usable cmap still has glyph names.
		idx.cmap, _ = font.CMapTable.GetBest()
	}
	for i := 1; i < font.NumGlyphs(); i++ {
		gid := glyph.ID(i)
		name := font.GlyphName(gid)
		if name == "" {
			continue
		}
		if _, seen := idx.byName[name]; !seen {
			idx.byName[name] = gid
		}
	}
	return idx
}

// Rune returns the glyph used for r.  If the character map has no entry,
// glyph names are interpreted using the Adobe Glyph List.
func (idx *glyphIndex) Rune(r rune) (glyph.ID, bool) {
	if gid, ok := idx.added[r]; ok {
		return gid, true
	}
	if idx.cmap != nil {
		if gid := idx.cmap.Lookup(r); gid != 0 {
			return gid, true
		}
	}
	var best glyph.ID
	for name, gid := range idx.byName {
		if rn, _ := glyphsnames.GlyphToRune(name); rn != r {
			continue
		}
		if best == 0 || gid < best {
			best = gid
		}
	}
	return best, best != 0
}

// MappedRune returns the glyph for r, considering only the character map.
func (idx *glyphIndex) MappedRune(r rune) (glyph.ID, bool) {
	if gid, ok := idx.added[r]; ok {
		return gid, true
	}
	if idx.cmap == nil {
		return 0, false
	}
	gid := idx.cmap.Lookup(r)
	return gid, gid != 0
}

// Name returns the first glyph carrying one of the given names.
func (idx *glyphIndex) Name(names ...string) (glyph.ID, bool) {
	for _, name := range names {
		if gid, ok := idx.byName[name]; ok {
			return gid, true
		}
	}
	return 0, false
}

// Add registers a newly created glyph.  The rune is recorded only if it is
// not mapped already.
func (idx *glyphIndex) Add(gid glyph.ID, name string, r rune) {
	if name != "" {
		if _, seen := idx.byName[name]; !seen {
			idx.byName[name] = gid
		}
	}
	if _, mapped := idx.MappedRune(r); !mapped {
		idx.added[r] = gid
	}
}
