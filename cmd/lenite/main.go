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

// Lenite adds the dotted consonants of Irish, together with ligature rules
// which produce them from "bh", "ch", ..., to a TrueType or OpenType font.
//
// Usage:
//
//	lenite [flags] input.ttf output.ttf
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"seehuhn.de/go/sfnt"

	"seehuhn.de/go/lenition"
)

// Exit codes.
const (
	exitOK = iota
	exitUsage
	exitFont
	exitCheck
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("lenite", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: lenite [flags] input.ttf output.ttf")
		flags.PrintDefaults()
	}
	verbose := flags.Bool("v", false, "show debug messages")
	quiet := flags.Bool("q", false, "only show warnings and errors")
	feature := flags.String("feature", lenition.DefaultFeature, "OpenType feature for the ligature rules")
	lowerOnly := flags.Bool("lower-only", false, "only process lowercase letters")
	noCompose := flags.Bool("no-compose", false, "do not create new glyphs")
	noCheck := flags.Bool("no-check", false, "do not verify the output font")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return exitUsage
	}
	if len(*feature) != 4 {
		fmt.Fprintf(stderr, "lenite: invalid feature tag %q\n", *feature)
		flags.Usage()
		return exitUsage
	}
	inName, outName := flags.Arg(0), flags.Arg(1)

	log := logrus.New()
	log.SetOutput(stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	switch {
	case *verbose:
		log.SetLevel(logrus.DebugLevel)
	case *quiet:
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	letters := lenition.All()
	if *lowerOnly {
		letters = lenition.Lowercase
	}

	font, err := sfnt.ReadFile(inName)
	if err != nil {
		log.WithError(err).Error("cannot read font")
		return exitFont
	}
	log.WithFields(logrus.Fields{
		"file":   inName,
		"family": font.FamilyName,
		"glyphs": font.NumGlyphs(),
	}).Debug("font loaded")

	report, err := lenition.Augment(font, &lenition.Options{
		Letters:   letters,
		Feature:   *feature,
		NoCompose: *noCompose,
		Logger:    log,
	})
	if err != nil {
		log.WithError(err).Error("cannot process font")
		return exitFont
	}

	if err := writeFont(outName, font); err != nil {
		log.WithError(err).Error("cannot write font")
		return exitFont
	}

	if !*quiet {
		printReport(stdout, report)
	}

	if *noCheck {
		return exitOK
	}
	if *feature != lenition.DefaultFeature {
		log.Infof("skipping the check for feature %q", *feature)
		return exitOK
	}

	data, err := os.ReadFile(outName)
	if err != nil {
		log.WithError(err).Error("cannot re-read output")
		return exitFont
	}
	problems, err := lenition.CheckFile(data, letters)
	if err != nil {
		log.WithError(err).Error("output font is not readable")
		return exitFont
	}
	for _, p := range problems {
		pterm.Error.WithWriter(stdout).Println(p.String())
	}
	if len(problems) > 0 {
		return exitCheck
	}
	if !*quiet {
		pterm.Success.WithWriter(stdout).Printfln("%s verified", outName)
	}
	return exitOK
}

func writeFont(fname string, font *sfnt.Font) error {
	buf := &bytes.Buffer{}
	_, err := font.Write(buf)
	if err != nil {
		return err
	}
	return os.WriteFile(fname, buf.Bytes(), 0o644)
}

func printReport(w io.Writer, report *lenition.Report) {
	data := pterm.TableData{
		{"letter", "glyph", "gid", "status", "method", "rules"},
	}
	for _, l := range report.Letters {
		gid := "-"
		method := "-"
		if l.Status != lenition.StatusSkipped {
			gid = fmt.Sprint(l.GID)
		}
		if l.Status == lenition.StatusComposed {
			method = l.Method.String()
		}
		status := l.Status.String()
		if l.Reason != "" {
			status += ": " + l.Reason
		}
		data = append(data, []string{
			string(l.Letter.Dotted),
			l.Letter.Name,
			gid,
			status,
			method,
			strings.Join(l.Rules, " "),
		})
	}
	err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render()
	if err != nil {
		fmt.Fprintln(w, err)
	}

	pterm.Info.WithWriter(w).Printfln("%d glyphs added, %d ligature rules added, %d letters skipped",
		report.Composed(), report.RulesAdded(), len(report.Skipped()))
}
