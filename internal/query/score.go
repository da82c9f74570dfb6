package query

import "github.com/calvinalkan/pm/internal/item"

// ComputeRICE returns (reach * impact * confidence) / effort, unrounded.
//
// Every input must lie in [item.MinScore, item.MaxScore]. Out-of-range input,
// in particular an effort of zero, returns an *InvalidInputError instead of a
// non-finite score.
func ComputeRICE(reach, impact, confidence, effort int) (float64, error) {
	if effort <= 0 {
		return 0, &InvalidInputError{Field: "effort", Value: effort, Reason: "must be positive"}
	}

	for _, in := range []struct {
		name  string
		value int
	}{
		{"reach", reach},
		{"impact", impact},
		{"confidence", confidence},
		{"effort", effort},
	} {
		if in.value < item.MinScore || in.value > item.MaxScore {
			return 0, &InvalidInputError{Field: in.name, Value: in.value, Reason: "must be between 1 and 10"}
		}
	}

	return float64(reach*impact*confidence) / float64(effort), nil
}

// RICEOf returns the RICE score of it. ok is false when the item has no
// scoring inputs or invalid ones, in which case the score is 0.
func RICEOf(it item.Item) (float64, bool) {
	if it.Scores == nil {
		return 0, false
	}

	s := it.Scores

	score, err := ComputeRICE(s.Reach, s.Impact, s.Confidence, s.Effort)
	if err != nil {
		return 0, false
	}

	return score, true
}

// Breakdown is a RICE score together with the parts it was computed from.
type Breakdown struct {
	Reach      int     `json:"reach"`
	Impact     int     `json:"impact"`
	Confidence int     `json:"confidence"`
	Effort     int     `json:"effort"`
	Numerator  int     `json:"numerator"`
	Score      float64 `json:"score"`
}

// Explain computes the RICE breakdown of in.
func Explain(in item.ScoreInputs) (Breakdown, error) {
	score, err := ComputeRICE(in.Reach, in.Impact, in.Confidence, in.Effort)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		Reach:      in.Reach,
		Impact:     in.Impact,
		Confidence: in.Confidence,
		Effort:     in.Effort,
		Numerator:  in.Reach * in.Impact * in.Confidence,
		Score:      score,
	}, nil
}
