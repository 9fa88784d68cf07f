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
	"slices"
	"sort"

	"golang.org/x/exp/maps"
	"golang.org/x/text/language"

	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/opentype/coverage"
	"seehuhn.de/go/sfnt/opentype/gtab"
)

// gsubLigatureType is the GSUB lookup type for ligature substitution.
const gsubLigatureType = 4

// noRequiredFeature marks a language system without a required feature.
const noRequiredFeature gtab.FeatureIndex = 0xFFFF

var (
	scriptLatin   = language.MustParseScript("Latn")
	scriptDefault = language.MustParseScript("Zzzz")

	// defaultTag is the language system "DFLT/dflt".
	defaultTag = language.MustParse("und-Zzzz")

	// latinDefault is the language system "latn/dflt".
	latinDefault = language.MustParse("und-Latn-x-latn")
)

// Rule is a ligature substitution rule.
type Rule struct {
	In  []glyph.ID
	Out glyph.ID
}

// ligatureBuilder adds ligature rules to a GSUB table.
type ligatureBuilder struct {
	info    *gtab.Info
	feature string

	// ours contains the output glyphs of all rules this package manages.
	// A lookup whose rules all produce glyphs in this set is reused.
	ours map[glyph.ID]bool

	target *gtab.Gsub4_1
}

// newLigatureBuilder prepares to add rules to info, using the given feature
// tag.  If info is nil, a new GSUB table is allocated once the first rule is
// added.
func newLigatureBuilder(info *gtab.Info, feature string, ours map[glyph.ID]bool) *ligatureBuilder {
	return &ligatureBuilder{
		info:    info,
		feature: feature,
		ours:    ours,
	}
}

// Find looks for an existing rule with the given input sequence.  If a rule
// is found, the function returns its output glyph.
func (b *ligatureBuilder) Find(in []glyph.ID) (glyph.ID, bool) {
	if b.info == nil || len(in) == 0 {
		return 0, false
	}
	for _, lookup := range b.info.LookupList {
		if lookup == nil || lookup.Meta == nil || lookup.Meta.LookupType != gsubLigatureType {
			continue
		}
		for _, sub := range lookup.Subtables {
			lig, ok := sub.(*gtab.Gsub4_1)
			if !ok {
				continue
			}
			idx, ok := lig.Cov[in[0]]
			if !ok || idx >= len(lig.Repl) {
				continue
			}
			for _, l := range lig.Repl[idx] {
				if slices.Equal(l.In, in[1:]) {
					return l.Out, true
				}
			}
		}
	}
	return 0, false
}

// Has reports whether any ligature lookup contains the rule.
func (b *ligatureBuilder) Has(r Rule) bool {
	if b.info == nil || len(r.In) == 0 {
		return false
	}
	for _, lookup := range b.info.LookupList {
		if lookup == nil || lookup.Meta == nil || lookup.Meta.LookupType != gsubLigatureType {
			continue
		}
		for _, sub := range lookup.Subtables {
			lig, ok := sub.(*gtab.Gsub4_1)
			if !ok {
				continue
			}
			idx, ok := lig.Cov[r.In[0]]
			if !ok || idx >= len(lig.Repl) {
				continue
			}
			for _, l := range lig.Repl[idx] {
				if l.Out == r.Out && slices.Equal(l.In, r.In[1:]) {
					return true
				}
			}
		}
	}
	return false
}

// Add adds the rule to the GSUB table, unless an identical rule exists
// already in one of the ligature lookups.  The return value indicates
// whether the table was changed.
func (b *ligatureBuilder) Add(r Rule) bool {
	if len(r.In) < 2 || b.Has(r) {
		return false
	}

	sub := b.subtable()
	addLigature(sub, r.In, r.Out)
	return true
}

// subtable returns the subtable new rules are added to.  The lookup is
// created on first use.
func (b *ligatureBuilder) subtable() *gtab.Gsub4_1 {
	if b.target != nil {
		return b.target
	}

	if b.info == nil {
		b.info = &gtab.Info{
			ScriptList: make(map[language.Tag]*gtab.Features),
		}
	}

	if lookup := b.findLookup(); lookup != nil {
		for _, sub := range lookup.Subtables {
			if lig, ok := sub.(*gtab.Gsub4_1); ok {
				b.target = lig
				return lig
			}
		}
		b.target = &gtab.Gsub4_1{Cov: coverage.Table{}}
		lookup.Subtables = append(lookup.Subtables, b.target)
		return b.target
	}

	b.target = &gtab.Gsub4_1{Cov: coverage.Table{}}
	lookupIndex := gtab.LookupIndex(len(b.info.LookupList))
	b.info.LookupList = append(b.info.LookupList, &gtab.LookupTable{
		Meta:      &gtab.LookupMetaInfo{LookupType: gsubLigatureType},
		Subtables: []gtab.Subtable{b.target},
	})
	fIdx := insertFeature(b.info, &gtab.Feature{
		Tag:     b.feature,
		Lookups: []gtab.LookupIndex{lookupIndex},
	})
	registerFeature(b.info, fIdx)
	return b.target
}

// findLookup returns a lookup which was created by a previous run.  Such a
// lookup is a ligature lookup, used by our feature, where all rules produce
// glyphs in b.ours.
func (b *ligatureBuilder) findLookup() *gtab.LookupTable {
	for _, f := range b.info.FeatureList {
		if f == nil || f.Tag != b.feature {
			continue
		}
		for _, lIdx := range f.Lookups {
			if int(lIdx) >= len(b.info.LookupList) {
				continue
			}
			lookup := b.info.LookupList[lIdx]
			if b.isOurs(lookup) {
				return lookup
			}
		}
	}
	return nil
}

func (b *ligatureBuilder) isOurs(lookup *gtab.LookupTable) bool {
	if lookup == nil || lookup.Meta == nil || lookup.Meta.LookupType != gsubLigatureType {
		return false
	}
	numRules := 0
	for _, sub := range lookup.Subtables {
		lig, ok := sub.(*gtab.Gsub4_1)
		if !ok {
			return false
		}
		for _, ll := range lig.Repl {
			for _, l := range ll {
				if !b.ours[l.Out] {
					return false
				}
				numRules++
			}
		}
	}
	return numRules > 0
}

// addLigature adds the rule in -> out to the subtable.  The coverage table
// is rebuilt, so that coverage indices follow the glyph order.  Within each
// ligature set, longer rules stay in front of shorter ones.
func addLigature(sub *gtab.Gsub4_1, in []glyph.ID, out glyph.ID) {
	all := make(map[glyph.ID][]gtab.Ligature, len(sub.Cov)+1)
	for gid, idx := range sub.Cov {
		if idx < len(sub.Repl) {
			all[gid] = sub.Repl[idx]
		}
	}

	lig := gtab.Ligature{
		In:  slices.Clone(in[1:]),
		Out: out,
	}
	set := all[in[0]]
	pos := len(set)
	for i, l := range set {
		if len(l.In) < len(lig.In) {
			pos = i
			break
		}
	}
	all[in[0]] = slices.Insert(slices.Clone(set), pos, lig)

	keys := maps.Keys(all)
	slices.Sort(keys)

	cov := coverage.Table{}
	repl := make([][]gtab.Ligature, len(keys))
	for i, gid := range keys {
		cov[gid] = i
		repl[i] = all[gid]
	}
	sub.Cov = cov
	sub.Repl = repl
}

// insertFeature adds f to the feature list, keeping the list sorted by tag.
// Feature indices in the script list are adjusted.  The function returns
// the index of the new feature.
func insertFeature(info *gtab.Info, f *gtab.Feature) gtab.FeatureIndex {
	pos := sort.Search(len(info.FeatureList), func(i int) bool {
		return info.FeatureList[i] != nil && info.FeatureList[i].Tag > f.Tag
	})
	info.FeatureList = slices.Insert(info.FeatureList, pos, f)

	idx := gtab.FeatureIndex(pos)
	shift := func(fi gtab.FeatureIndex) gtab.FeatureIndex {
		if fi != noRequiredFeature && fi >= idx {
			return fi + 1
		}
		return fi
	}
	for _, features := range info.ScriptList {
		if features == nil {
			continue
		}
		features.Required = shift(features.Required)
		for i, fi := range features.Optional {
			features.Optional[i] = shift(fi)
		}
	}
	return idx
}

// registerFeature enables the feature for the default script and for all
// language systems of the Latin script.  Entries for "DFLT/dflt" and
// "latn/dflt" are created if needed.  A new "latn/dflt" entry starts as a
// copy of the "DFLT/dflt" entry.
func registerFeature(info *gtab.Info, fIdx gtab.FeatureIndex) {
	var dflt *gtab.Features
	haveLatin := false
	for tag, features := range info.ScriptList {
		isDefault := isDefaultTag(tag)
		isLatin := isLatinTag(tag)
		if !isDefault && !isLatin {
			continue
		}
		if features == nil {
			features = &gtab.Features{Required: noRequiredFeature}
			info.ScriptList[tag] = features
		}
		if !slices.Contains(features.Optional, fIdx) {
			features.Optional = append(features.Optional, fIdx)
			slices.Sort(features.Optional)
		}

		haveLatin = haveLatin || isLatin
		if isDefault && (dflt == nil || isUndetermined(tag)) {
			dflt = features
		}
	}
	if dflt == nil {
		dflt = &gtab.Features{
			Required: noRequiredFeature,
			Optional: []gtab.FeatureIndex{fIdx},
		}
		info.ScriptList[defaultTag] = dflt
	}
	if !haveLatin {
		// Latin text used the default entry so far.
		info.ScriptList[latinDefault] = &gtab.Features{
			Required: dflt.Required,
			Optional: slices.Clone(dflt.Optional),
		}
	}
}

// isDefaultTag reports whether tag belongs to the "DFLT" script.  When
// reading a font, such entries are tagged "und-Zzzz-x-dflt".
func isDefaultTag(tag language.Tag) bool {
	script, conf := tag.Script()
	return script == scriptDefault && conf == language.Exact
}

// isLatinTag reports whether tag belongs to the Latin script.
func isLatinTag(tag language.Tag) bool {
	if tag == language.Und {
		return false
	}
	script, conf := tag.Script()
	return script == scriptLatin && conf >= language.High
}

func isUndetermined(tag language.Tag) bool {
	base, _, _ := tag.Raw()
	return base.String() == "und"
}
