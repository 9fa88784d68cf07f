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

import "seehuhn.de/go/sfnt/glyph"

// Status describes what happened to one letter.
type Status int

// These are the possible values of [LetterReport.Status].
const (
	StatusExisting Status = iota
	StatusComposed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusExisting:
		return "existing"
	case StatusComposed:
		return "composed"
	case StatusSkipped:
		return "skipped"
	default:
		return "invalid"
	}
}

// LetterReport summarises the changes made for one letter.
type LetterReport struct {
	Letter Letter

	// GID is the glyph used for the dotted letter.
	// This is only valid if Status is not StatusSkipped.
	GID glyph.ID

	Status Status
	Method Method

	// Rules lists the input sequences of the ligature rules which were
	// added, for example "bh".
	Rules []string

	// Reason explains why a letter was skipped.
	Reason string
}

// Report describes the changes made by [Augment].
type Report struct {
	Letters []LetterReport
}

// Composed returns the number of glyphs which were added to the font.
func (r *Report) Composed() int {
	n := 0
	for _, l := range r.Letters {
		if l.Status == StatusComposed {
			n++
		}
	}
	return n
}

// Skipped returns the letters which could not be processed.
func (r *Report) Skipped() []LetterReport {
	var res []LetterReport
	for _, l := range r.Letters {
		if l.Status == StatusSkipped {
			res = append(res, l)
		}
	}
	return res
}

// RulesAdded returns the number of new ligature rules.
func (r *Report) RulesAdded() int {
	n := 0
	for _, l := range r.Letters {
		n += len(l.Rules)
	}
	return n
}

// Changed reports whether the font was modified.
func (r *Report) Changed() bool {
	return r.Composed() > 0 || r.RulesAdded() > 0
}
