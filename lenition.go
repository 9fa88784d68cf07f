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

// Package lenition adds the dotted consonants of Irish orthography to
// TrueType and OpenType fonts.
//
// In the traditional script, lenition is marked by a dot above the
// consonant (ḃ, ċ, ḋ, ḟ, ġ, ṁ, ṗ, ṡ, ṫ), while modern spelling writes a
// following "h" instead.  [Augment] makes sure that the font contains
// glyphs for the dotted letters, and adds "liga" rules to the GSUB table
// which replace "bh" by "ḃ", "Bh" and "BH" by "Ḃ", and so on.  Text typed
// in modern spelling is then displayed in the traditional form.
//
// Missing glyphs are assembled from the base letter and a dot accent found
// in the font.  For TrueType outlines, composite glyphs are used.  For CFF
// outlines, the two outlines are merged.
package lenition

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/runenames"

	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/glyf"
	"seehuhn.de/go/sfnt/glyph"
)

// DefaultFeature is the OpenType feature used for the ligature rules.
const DefaultFeature = "liga"

var (
	// ErrUnsupportedOutlines is returned for fonts which use neither
	// TrueType nor CFF glyph outlines.
	ErrUnsupportedOutlines = errors.New("lenition: unsupported glyph outlines")

	// ErrNoGlyph indicates that a glyph required to build a dotted
	// letter is missing from the font.
	ErrNoGlyph = errors.New("lenition: glyph not found")
)

// Options can be used to control the behaviour of [Augment].
// A nil value is equivalent to the zero value.
type Options struct {
	// Letters lists the letters to process.
	// If this is nil, [All] is used.
	Letters []Letter

	// Feature is the OpenType feature tag for the ligature rules.
	// If this is empty, [DefaultFeature] is used.
	Feature string

	// NoCompose disables the construction of new glyphs.  Only letters which
	// already have a glyph in the font get ligature rules.
	NoCompose bool

	// Logger receives progress messages.
	// If this is nil, the standard logrus logger is used.
	Logger logrus.FieldLogger
}

// Augment adds the dotted letters and the corresponding ligature rules to
// the font.  The font is modified in place.
//
// Letters which cannot be built are skipped and listed in the report.  An
// error is returned only if the font cannot be processed at all.
func Augment(font *sfnt.Font, opt *Options) (*Report, error) {
	if opt == nil {
		opt = &Options{}
	}
	letters := opt.Letters
	if letters == nil {
		letters = All()
	}
	if err := Validate(letters); err != nil {
		return nil, err
	}
	feature := opt.Feature
	if feature == "" {
		feature = DefaultFeature
	}
	if len(feature) != 4 {
		return nil, fmt.Errorf("lenition: invalid feature tag %q", feature)
	}
	log := opt.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	switch font.Outlines.(type) {
	case *glyf.Outlines, *cff.Outlines:
		// pass
	default:
		return nil, ErrUnsupportedOutlines
	}

	a := &augmenter{
		font:      font,
		idx:       newGlyphIndex(font),
		log:       log,
		noCompose: opt.NoCompose,
	}

	report := &Report{}
	newMappings := make(map[rune]glyph.ID)
	ours := make(map[glyph.ID]bool)
	for _, l := range letters {
		lr := a.ensureGlyph(l)
		if lr.Status != StatusSkipped {
			ours[lr.GID] = true
			if _, mapped := a.idx.MappedRune(l.Dotted); !mapped || lr.Status == StatusComposed {
				newMappings[l.Dotted] = lr.GID
				a.idx.Add(lr.GID, "", l.Dotted)
			}
		}
		report.Letters = append(report.Letters, lr)
	}

	// Rules from earlier runs, for other letters, live in the same lookup.
	for _, l := range All() {
		if gid, ok := a.idx.Name(l.Name); ok {
			ours[gid] = true
		}
		if gid, ok := a.idx.MappedRune(l.Dotted); ok {
			ours[gid] = true
		}
	}

	if n := extendCMap(font, newMappings); n > 0 {
		log.WithField("count", n).Debug("extended the character map")
	}

	lb := newLigatureBuilder(font.Gsub, feature, ours)
	for i := range report.Letters {
		lr := &report.Letters[i]
		if lr.Status == StatusSkipped {
			continue
		}
		a.addRules(lb, lr)
	}
	font.Gsub = lb.info

	log.WithFields(logrus.Fields{
		"composed": report.Composed(),
		"skipped":  len(report.Skipped()),
		"rules":    report.RulesAdded(),
	}).Info("lenition glyphs processed")

	return report, nil
}

// augmenter holds the state of one call to [Augment].
type augmenter struct {
	font      *sfnt.Font
	idx       *glyphIndex
	log       logrus.FieldLogger
	noCompose bool

	// fd records the private dictionaries of new glyphs in CID-keyed CFF
	// fonts.
	fd map[glyph.ID]int
}

// ensureGlyph makes sure that the font has a glyph for the dotted letter.
func (a *augmenter) ensureGlyph(l Letter) LetterReport {
	log := a.log.WithFields(logrus.Fields{
		"letter": string(l.Dotted),
		"glyph":  l.Name,
	})
	lr := LetterReport{Letter: l}

	if gid, ok := a.idx.Name(l.Name); ok {
		log.WithField("gid", gid).Debug("glyph exists, adding ligature rules only")
		lr.GID = gid
		lr.Status = StatusExisting
		return lr
	}
	if gid, ok := a.idx.MappedRune(l.Dotted); ok {
		log.WithFields(logrus.Fields{
			"gid":  gid,
			"name": a.font.GlyphName(gid),
		}).Debugf("%s is mapped, adding ligature rules only", runenames.Name(l.Dotted))
		lr.GID = gid
		lr.Status = StatusExisting
		return lr
	}

	if a.noCompose {
		lr.Status = StatusSkipped
		lr.Reason = "no glyph and composition disabled"
		log.Warn("skipping letter: " + lr.Reason)
		return lr
	}

	gid, method, err := a.compose(l)
	if err != nil {
		lr.Status = StatusSkipped
		lr.Reason = err.Error()
		log.WithError(err).Warn("could not build glyph, check manually")
		return lr
	}
	a.idx.Add(gid, l.Name, l.Dotted)

	log.WithFields(logrus.Fields{
		"gid":    gid,
		"method": method,
	}).Infof("created glyph for %s", runenames.Name(l.Dotted))
	lr.GID = gid
	lr.Status = StatusComposed
	lr.Method = method
	return lr
}

// compose builds a new glyph for the letter from its base glyph and a dot.
func (a *augmenter) compose(l Letter) (glyph.ID, Method, error) {
	base, ok := a.idx.Rune(l.Base)
	if !ok {
		return 0, MethodNone, fmt.Errorf("base letter %q: %w", l.Base, ErrNoGlyph)
	}
	acc, ok := a.findAccent(l)
	if !ok {
		return 0, MethodNone, fmt.Errorf("dot accent: %w", ErrNoGlyph)
	}

	gap := float64(a.font.UnitsPerEm) / 20
	dx, dy := placeAccent(a.font.GlyphBBox(base), a.font.GlyphBBox(acc.GID),
		acc.RefHeight, gap, a.font.ItalicAngle)

	var gid glyph.ID
	switch o := a.font.Outlines.(type) {
	case *glyf.Outlines:
		gid = a.composeGlyf(o, base, acc.GID, dx, dy, l.Name)
	case *cff.Outlines:
		gid = a.composeCFF(o, base, acc.GID, dx, dy, l.Name)
	default:
		panic("unexpected font type")
	}
	return gid, acc.Method, nil
}

// addRules adds the ligature rules for one letter.
func (a *augmenter) addRules(lb *ligatureBuilder, lr *LetterReport) {
	l := lr.Letter
	log := a.log.WithField("glyph", l.Name)

seqLoop:
	for _, seq := range l.Sequences() {
		in := make([]glyph.ID, len(seq))
		for i, r := range seq {
			gid, ok := a.idx.MappedRune(r)
			if !ok {
				log.Warnf("no glyph for %q, skipping rule %q", r, string(seq))
				continue seqLoop
			}
			in[i] = gid
		}

		if out, ok := lb.Find(in); ok && out != lr.GID {
			log.WithField("other", a.font.GlyphName(out)).
				Warnf("%q already has a different ligature", string(seq))
		}
		if lb.Add(Rule{In: in, Out: lr.GID}) {
			log.Debugf("added ligature: %s -> %s", string(seq), l.Name)
			lr.Rules = append(lr.Rules, string(seq))
		}
	}
}
