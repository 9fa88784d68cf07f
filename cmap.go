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
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"
)

// extendCMap adds the given mappings to the character map of the font.
// Characters which are mapped already keep their existing glyph.  The
// function returns the number of new mappings.
//
// The best existing subtable is used as the starting point and is installed
// for both the Unicode and the Windows platform.  Other subtables are
// dropped.
func extendCMap(font *sfnt.Font, add map[rune]glyph.ID) int {
	if len(add) == 0 {
		return 0
	}

	var old cmap.Subtable
	if font.CMapTable != nil {
		old, _ = font.CMapTable.GetBest()
	}

	var high rune
	for r := range add {
		high = max(high, r)
	}
	if old != nil {
		_, oldHigh := old.CodeRange()
		high = max(high, oldHigh)
	}

	var res cmap.Subtable
	count := 0
	switch c := old.(type) {
	case cmap.Format4:
		res4 := make(cmap.Format4, len(c)+len(add))
		for key, gid := range c {
			res4[key] = gid
		}
		count = addFormat4(res4, add)
		res = res4
	case cmap.Format12:
		res12 := make(cmap.Format12, len(c)+len(add))
		for key, gid := range c {
			res12[key] = gid
		}
		count = addFormat12(res12, add)
		res = res12
	default:
		// Other formats are converted, by enumerating the code range.
		if high <= 0xFFFF {
			res4 := cmap.Format4{}
			copyMappings(old, func(r rune, gid glyph.ID) { res4[uint16(r)] = gid })
			count = addFormat4(res4, add)
			res = res4
		} else {
			res12 := cmap.Format12{}
			copyMappings(old, func(r rune, gid glyph.ID) { res12[uint32(r)] = gid })
			count = addFormat12(res12, add)
			res = res12
		}
	}

	if count > 0 {
		font.InstallCMap(res)
	}
	return count
}

func addFormat4(c cmap.Format4, add map[rune]glyph.ID) int {
	count := 0
	for r, gid := range add {
		if r > 0xFFFF {
			continue
		}
		key := uint16(r)
		if _, exists := c[key]; exists {
			continue
		}
		c[key] = gid
		count++
	}
	return count
}

func addFormat12(c cmap.Format12, add map[rune]glyph.ID) int {
	count := 0
	for r, gid := range add {
		key := uint32(r)
		if _, exists := c[key]; exists {
			continue
		}
		c[key] = gid
		count++
	}
	return count
}

func copyMappings(c cmap.Subtable, set func(rune, glyph.ID)) {
	if c == nil {
		return
	}
	low, high := c.CodeRange()
	for r := low; r <= high; r++ {
		if gid := c.Lookup(r); gid != 0 {
			set(r, gid)
		}
	}
}
