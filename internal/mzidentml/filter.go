package mzidentml

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	// ErrRangeSpec means a range has a minimum above its maximum
	ErrRangeSpec = errors.New("invalid range specification")
	// ErrScoreFilter means a score filter can't be parsed
	ErrScoreFilter = errors.New("invalid score filter")
)

type scoreRange struct {
	minScore float64
	maxScore float64
	priority int
}

// ScoreFilter accepts identifications by score. Keys are CV accessions or
// score names.
type ScoreFilter map[string]scoreRange

var (
	rangeRE       = regexp.MustCompile(`\s*([-+]?[0-9]*\.?[0-9]*([eE][-+]?[0-9]+)?):([-+]?[0-9]*\.?[0-9]*([eE][-+]?[0-9]+)?)`)
	scoreFilterRE = regexp.MustCompile(`([^\(]+)\(([^\)]*)\)`)
)

// Parse string like "-12.01e1:+6" into 2 values, -120.1 and 6.0
// Parameters min and max are the "default" min/max values,
// when a value is not specified (e.g. "-12.01e1:"), the default is assigned
func parseFloat64Range(r string, min float64, max float64) (
	float64, float64, error) {
	m := rangeRE.FindStringSubmatch(r)
	minOut := min
	maxOut := max
	if len(m) >= 2 && m[1] != "" {
		minOut, _ = strconv.ParseFloat(m[1], 64)
		if minOut < min {
			minOut = min
		}
	}
	if len(m) >= 4 && m[3] != "" {
		maxOut, _ = strconv.ParseFloat(m[3], 64)
		if maxOut > max {
			maxOut = max
		}
	}
	var err error
	if minOut > maxOut {
		err = ErrRangeSpec
		minOut = maxOut
	}
	return minOut, maxOut, err
}

// ParseScoreFilter parses a filter like
// "MS:1001172(:0.05)Mascot:score(20:)". When an identification has more
// than one of the scores, the first one in the filter decides.
func ParseScoreFilter(s string) (ScoreFilter, error) {
	scoreFilt := make(ScoreFilter)

	matchedStringsList := scoreFilterRE.FindAllStringSubmatch(s, -1)
	if len(matchedStringsList) == 0 && s != "" {
		return nil, fmt.Errorf("%w: %q", ErrScoreFilter, s)
	}
	for n, matchedStrings := range matchedStringsList {
		scoreName := matchedStrings[1]
		scoreRangeStr := matchedStrings[2]
		if _, ok := scoreFilt[scoreName]; ok {
			return nil, fmt.Errorf("%w: %s defined more than once", ErrScoreFilter, scoreName)
		}
		minScore, maxScore, err := parseFloat64Range(scoreRangeStr,
			-math.MaxFloat64, math.MaxFloat64)
		if err != nil {
			return nil, fmt.Errorf("%w: range for score %s: %w", ErrScoreFilter, scoreName, err)
		}
		scoreFilt[scoreName] = scoreRange{minScore: minScore, maxScore: maxScore, priority: n}
	}
	return scoreFilt, nil
}

// Accept reports whether the highest priority score of ident that the
// filter names is in range. An empty filter accepts everything.
func (f ScoreFilter) Accept(ident Identification) (bool, error) {
	if len(f) == 0 {
		return true, nil
	}
	scoreOK := false
	curPrio := math.MaxInt32
	for _, cv := range ident.Cv {
		// Check if the CV accession number or CV name matches scorefilter
		filt, ok := f[cv.Accession]
		if !ok {
			filt, ok = f[cv.Name]
		}
		if !ok || filt.priority >= curPrio {
			continue
		}
		score, err := strconv.ParseFloat(cv.Value, 64)
		if err != nil {
			return false, fmt.Errorf("invalid score value %q for %s", cv.Value, cv.Accession)
		}
		curPrio = filt.priority
		scoreOK = score >= filt.minScore && score <= filt.maxScore
	}
	return scoreOK, nil
}
