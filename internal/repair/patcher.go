package repair

// Patcher applies an ordered list of whole-text rules: line replacements,
// one header insertion per known recovery, then trailer completion.
type Patcher struct {
	rules []Rule
}

func NewPatcher(opts Options, extra ...Rule) *Patcher {
	rules := make([]Rule, 0, len(opts.Recoveries)+len(extra)+2)
	if len(opts.LineFixes) > 0 {
		rules = append(rules, LineRule{Fixes: opts.LineFixes})
	}
	for _, rec := range opts.Recoveries {
		rules = append(rules, NewHeaderRule(rec.Section, opts.RecordField, rec.RecordID))
	}
	rules = append(rules, extra...)
	rules = append(rules, TrailerRule{})
	return &Patcher{rules: rules}
}

func (p *Patcher) Name() string { return StrategyPatch }

func (p *Patcher) Repair(raw string) (Outcome, error) {
	text := raw
	var applied []string
	for _, rule := range p.rules {
		next, changed := rule.Apply(text)
		if changed {
			applied = append(applied, rule.Name())
		}
		text = next
	}
	return Outcome{Text: text, Applied: applied}, nil
}
