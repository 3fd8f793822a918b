package parser

import (
	"github.com/524D/mztab/internal/mzerr"
	"github.com/524D/mztab/internal/mztab"
)

// refineHeader checks the columns that the file's mode and type make
// mandatory
func refineHeader(h *headerParser) error {
	md := h.md
	s := h.section
	need := func(header string) error {
		if h.f.FindColumnByHeader(header) == nil {
			return h.fatal(mzerr.NotDefineInHeader, header, "", md.Mode.String(), md.Type.String())
		}
		return nil
	}

	scores := md.SearchEngineScores(s)
	runs := md.MsRuns()
	for _, sc := range scores {
		if s == mztab.SectionPSM {
			if err := need(mztab.ScoreHeader(sc.ID, 0)); err != nil {
				return err
			}
			continue
		}
		if err := need(mztab.BestScoreHeader(sc.ID)); err != nil {
			return err
		}
		if md.Mode != mztab.ModeComplete {
			continue
		}
		for _, r := range runs {
			if err := need(mztab.ScoreHeader(sc.ID, r.ID)); err != nil {
				return err
			}
		}
	}

	if s == mztab.SectionProtein && md.Mode == mztab.ModeComplete {
		for _, r := range runs {
			for _, name := range []string{mztab.ColNumPSMs, mztab.ColNumPeptidesDistinct, mztab.ColNumPeptidesUnique} {
				if err := need(name + "_" + r.Reference()); err != nil {
					return err
				}
			}
		}
	}

	if md.Type != mztab.TypeQuantification || s.AbundancePrefix() == "" {
		return nil
	}
	if md.QuantificationUnit(s) == nil {
		key := s.ColUnitName() + "-quantification_unit"
		return h.fatal(mzerr.MissingMetadata, key, "required for "+s.Name()+" abundance columns")
	}
	for _, sv := range md.StudyVariables() {
		for field := mztab.AbundanceValue; field <= mztab.AbundanceStdError; field++ {
			if err := need(mztab.AbundanceHeader(s, field, sv.Element())); err != nil {
				return err
			}
		}
	}
	if md.Mode == mztab.ModeComplete {
		for _, a := range md.Assays() {
			if err := need(mztab.AbundanceHeader(s, mztab.AbundanceValue, a.Element())); err != nil {
				return err
			}
		}
	}
	return nil
}
