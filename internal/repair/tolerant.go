package repair

import (
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// Tolerant hands the whole document to a general-purpose JSON repairer.
// It knows nothing about the quiz layout and is only used on request.
type Tolerant struct{}

func (Tolerant) Name() string { return StrategyTolerant }

func (Tolerant) Repair(raw string) (Outcome, error) {
	repaired, err := jsonrepair.JSONRepair(raw)
	if err != nil {
		return Outcome{Text: raw}, fmt.Errorf("jsonrepair: %w", err)
	}
	out := Outcome{Text: repaired}
	if repaired != raw {
		out.Applied = []string{"jsonrepair"}
	}
	return out, nil
}
