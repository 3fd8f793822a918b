package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/524D/mztab/internal/mzidentml"
	"github.com/524D/mztab/internal/mztab"
)

// defaultOutput derives an output file name from the input name
func defaultOutput(in, ext string) string {
	return in[:len(in)-len(filepath.Ext(in))] + ext
}

func (a *app) convert(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()
	m, err := mzidentml.Read(f)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	filter, err := mzidentml.ParseScoreFilter(a.cfg.Convert.ScoreFilter)
	if err != nil {
		return err
	}
	c, err := mzidentml.Convert(&m, mzidentml.ConvertOptions{
		Title:             a.cfg.Convert.Title,
		Description:       a.cfg.Convert.Description,
		PassThresholdOnly: a.cfg.Convert.PassThreshold,
		ScoreFilter:       filter,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	err = c.Metadata.SetSoftware(len(c.Metadata.SoftwareList())+1, mztab.NewUserParam(progName, progVersion))
	if err != nil {
		return err
	}

	o, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := c.Write(o); err != nil {
		o.Close()
		return fmt.Errorf("%s: %w", out, err)
	}
	if err := o.Close(); err != nil {
		return err
	}
	a.log.Info("converted", "input", in, "output", out,
		"identifications", m.NumIdents(), "psm_rows", len(c.Records), "without_evidence", c.Skipped)
	return nil
}

func convertCmd(a *app) *cobra.Command {
	var (
		out           string
		scoreFilter   string
		passThreshold bool
		title         string
		description   string
	)
	cmd := &cobra.Command{
		Use:   "convert [flags] <mzIdentML file>",
		Short: "Convert mzIdentML search results to an mzTab Identification file",
		Long: `Convert the spectrum identifications of an mzIdentML file to the PSM
section of an mzTab 1.0 Summary Identification file. Every protein
evidence of an identification gives one PSM row.

Identifications without protein evidence are left out.`,
		Example: `  mztab convert yeast.mzid
    Writes yeast.mzTab

  mztab convert --scorefilter 'MS:1002257(0.0:0.001)' -o out.mzTab yeast.mzid
    Only keeps PSMs with Comet expectation value <0.001`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("scorefilter") {
				a.cfg.Convert.ScoreFilter = scoreFilter
			}
			if flags.Changed("pass-threshold") {
				a.cfg.Convert.PassThreshold = passThreshold
			}
			if flags.Changed("title") {
				a.cfg.Convert.Title = title
			}
			if flags.Changed("description") {
				a.cfg.Convert.Description = description
			}
			if out == "" {
				out = defaultOutput(args[0], ".mzTab")
			}
			return a.convert(args[0], out)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&out, "output", "o", "", "`filename` of the mzTab output (default: input name with extension .mzTab)")
	flags.StringVar(&scoreFilter, "scorefilter", "",
		`filter for PSM scores to accept. Format:
<CVterm1|scorename1>([<minscore1>]:[<maxscore1>])...
When multiple score names/CV terms are specified, the first one on the list
that matches a score of the identification is used.`)
	flags.BoolVar(&passThreshold, "pass-threshold", false, "only keep identifications that passed the search engine threshold")
	flags.StringVar(&title, "title", "", "mzTab-title of the output")
	flags.StringVar(&description, "description", "", "mzTab-description of the output")
	return cmd
}
