package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mzml"
	"github.com/524D/mztab/internal/parser"
)

// errInvalid is returned when a checked file has errors of level Error
var errInvalid = errors.New("invalid mzTab file(s)")

// fileResult is the outcome of checking one file
type fileResult struct {
	path     string
	errs     []*mzerr.Error
	overflow bool
	err      error // I/O error, the file could not be read to the end
}

func (r fileResult) invalid() bool {
	if r.err != nil {
		return true
	}
	for _, e := range r.errs {
		if e.Type.Level == mzerr.LevelError {
			return true
		}
	}
	return false
}

// expandPatterns resolves glob patterns like "data/**/*.mzTab". A pattern
// that matches nothing is kept, so that opening it reports the problem.
func expandPatterns(patterns []string) ([]string, error) {
	var files []string
	seen := map[string]bool{}
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			matches = []string{p}
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// checkFile reads one mzTab file and collects its errors
func (a *app) checkFile(path string, lookup parser.SpectrumLookup) fileResult {
	res := fileResult{path: path}
	f, err := os.Open(path)
	if err != nil {
		res.err = err
		return res
	}
	defer f.Close()

	list := mzerr.NewErrorList(a.cfg.Validate.MaxErrors, a.cfg.ErrorLevel())
	opts := []parser.ReaderOption{
		parser.WithLogger(a.log.With("file", path)),
		parser.ValidateOnly(),
	}
	if lookup != nil {
		opts = append(opts, parser.WithDataOptions(parser.WithSpectrumLookup(lookup)))
	}
	_, err = parser.NewReader(opts...).Read(f, list)
	switch {
	case errors.Is(err, mzerr.ErrOverflow):
		res.overflow = true
	case err != nil:
		res.err = err
	}
	res.errs = list.Errors()
	return res
}

// validateFiles checks files with at most jobs files at the same time.
// Results are in the order of files.
func (a *app) validateFiles(ctx context.Context, files []string) ([]fileResult, error) {
	var lookup parser.SpectrumLookup
	if a.cfg.Validate.CheckSpectra {
		lookup = mzml.NewCache().Lookup
	}

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Validate.Jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			a.log.Debug("checking", "file", path)
			results[i] = a.checkFile(path, lookup)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func printResults(w io.Writer, results []fileResult, maxErrors int) error {
	for _, r := range results {
		if r.err != nil {
			if _, err := fmt.Fprintf(w, "%s: %v\n", r.path, r.err); err != nil {
				return err
			}
		}
		for _, e := range r.errs {
			if _, err := fmt.Fprintf(w, "%s: %s\n", r.path, e.Error()); err != nil {
				return err
			}
		}
		if r.overflow {
			if _, err := fmt.Fprintf(w, "%s: stopped after %d errors\n", r.path, maxErrors); err != nil {
				return err
			}
		}
		if r.err == nil && len(r.errs) == 0 {
			if _, err := fmt.Fprintf(w, "%s: OK\n", r.path); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateCmd(a *app) *cobra.Command {
	var (
		level        string
		maxErrors    int
		jobs         int
		checkSpectra bool
	)
	cmd := &cobra.Command{
		Use:   "validate [flags] <file|pattern>...",
		Short: "Check mzTab files",
		Long: `Check mzTab files and print the problems found, one per line.
Patterns may use ** to match directories, e.g. 'results/**/*.mzTab'.
The exit status is non-zero when a file has errors of level Error.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("level") {
				a.cfg.Validate.Level = level
			}
			if flags.Changed("max-errors") {
				a.cfg.Validate.MaxErrors = maxErrors
			}
			if flags.Changed("jobs") {
				a.cfg.Validate.Jobs = jobs
			}
			if flags.Changed("check-spectra") {
				a.cfg.Validate.CheckSpectra = checkSpectra
			}
			if err := a.cfg.Check(); err != nil {
				return err
			}

			files, err := expandPatterns(args)
			if err != nil {
				return err
			}
			results, err := a.validateFiles(cmd.Context(), files)
			if err != nil {
				return err
			}
			if err := printResults(cmd.OutOrStdout(), results, a.cfg.Validate.MaxErrors); err != nil {
				return err
			}
			nInvalid := 0
			for _, r := range results {
				if r.invalid() {
					nInvalid++
				}
			}
			a.log.Info("validation done", "files", len(results), "invalid", nInvalid)
			if nInvalid > 0 {
				return errInvalid
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&level, "level", "Warn", "lowest error `level` to report (Info, Warn, Error)")
	flags.IntVar(&maxErrors, "max-errors", mzerr.DefaultMaxErrors, "stop checking a file after this many errors")
	flags.IntVarP(&jobs, "jobs", "j", 0, "number of files checked at the same time (default: number of CPUs)")
	flags.BoolVar(&checkSpectra, "check-spectra", false, "look up every spectra_ref in the referenced mzML file")
	return cmd
}
