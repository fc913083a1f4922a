package repair

import (
	"fmt"
	"sort"
)

const (
	StrategyPatch    = "patch"
	StrategyRebuild  = "rebuild"
	StrategyTolerant = "tolerant"
)

// Options carries the heuristics shared by the strategies.
type Options struct {
	Difficulty    string
	SkipLines     int
	SectionPrefix string
	RecordField   string
	Recoveries    []RecoverySpec
	LineFixes     []LineFix
}

// RecoverySpec names a section whose header is known to be missing and the
// record that should open it. AfterLine only matters to the reconstructor.
type RecoverySpec struct {
	Section   string
	RecordID  string
	AfterLine int
}

// DefaultOptions matches the layout of the quiz database the tool was built for.
func DefaultOptions() Options {
	return Options{
		Difficulty:    "facile",
		SkipLines:     3,
		SectionPrefix: "maladies_",
		RecordField:   "quizId",
		Recoveries: []RecoverySpec{
			{Section: "maladies_hematologiques", RecordID: "maladies_hematologiques_quiz_1", AfterLine: 2000},
		},
	}
}

// Outcome is the text a strategy produced plus what it did to get there.
type Outcome struct {
	Text    string
	Applied []string

	// Filled by the reconstructor.
	Sections []string
	Dropped  []int
}

// Strategy is a single-pass, best-effort repair of a raw document.
type Strategy interface {
	Name() string
	Repair(raw string) (Outcome, error)
}

var constructors = map[string]func(Options) Strategy{
	StrategyPatch:    func(o Options) Strategy { return NewPatcher(o) },
	StrategyRebuild:  func(o Options) Strategy { return NewReconstructor(o) },
	StrategyTolerant: func(Options) Strategy { return Tolerant{} },
}

// NewStrategy builds the strategy registered under name.
func NewStrategy(name string, opts Options) (Strategy, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown repair strategy %q (known: %v)", name, StrategyNames())
	}
	return ctor(opts), nil
}

// StrategyNames lists the registered strategies in sorted order.
func StrategyNames() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
