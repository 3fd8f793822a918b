package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
	"github.com/524D/mztab/internal/parser"
	"github.com/524D/mztab/internal/stats"
)

var dataSections = []mztab.Section{
	mztab.SectionProtein,
	mztab.SectionPeptide,
	mztab.SectionPSM,
	mztab.SectionSmallMolecule,
}

// fileSummary is the JSON output of the summary command
type fileSummary struct {
	// Version of the output format
	FormatVersion string
	File          string
	Mode          string
	Type          string
	Errors        int
	Sections      []sectionSummary
}

type sectionSummary struct {
	Section string
	Rows    int
	Columns []stats.Summary
}

func summarize(path string, f *parser.File, errs *mzerr.ErrorList) fileSummary {
	s := fileSummary{
		FormatVersion: outputFormatVersion,
		File:          path,
		Mode:          f.Metadata.Mode.String(),
		Type:          f.Metadata.Type.String(),
		Errors:        errs.Count(mzerr.LevelError),
	}
	for _, sec := range dataSections {
		t := f.Table(sec)
		if t == nil {
			continue
		}
		s.Sections = append(s.Sections, sectionSummary{
			Section: sec.Prefix(),
			Rows:    t.Rows,
			Columns: stats.Table(t.Factory, t.Records),
		})
	}
	return s
}

func (a *app) summary(path string, w io.Writer) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	errs := mzerr.NewErrorList(a.cfg.Validate.MaxErrors, mzerr.LevelError)
	f, err := parser.NewReader(parser.WithLogger(a.log.With("file", path))).Read(in, errs)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if n := errs.Len(); n > 0 {
		a.log.Warn("file has errors, statistics may be incomplete", "file", path, "errors", n)
	}

	e := json.NewEncoder(w)
	e.SetIndent(``, `  `) // Make output easier to read for humans
	return e.Encode(summarize(path, f, errs))
}

func summaryCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "summary [flags] <mzTab file>",
		Short: "Summarize the numeric columns of an mzTab file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return a.summary(args[0], cmd.OutOrStdout())
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := a.summary(args[0], f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "`filename` of the JSON output (default: standard output)")
	return cmd
}
