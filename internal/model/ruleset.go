package model

// RuleSet is an insertion-ordered collection of rules with unique url-filter
// values. When two rules share a url-filter, the first occurrence wins and
// the relative order of all other rules is unchanged.
//
// Design decision: We keep both a slice and a map rather than deduplicating
// at serialization time. This keeps Add O(1), preserves insertion order for
// free, and lets callers observe rejection at the moment it happens (the
// skipped counter in the conversion report depends on that).
type RuleSet struct {
	// rules holds retained rules in insertion order.
	rules []Rule

	// seen tracks url-filter values already retained.
	seen map[string]struct{}
}

// NewRuleSet creates an empty RuleSet.
func NewRuleSet() *RuleSet {
	return &RuleSet{
		seen: make(map[string]struct{}),
	}
}

// Add appends rule unless a rule with the same url-filter was already added.
// It reports whether the rule was retained.
func (rs *RuleSet) Add(rule Rule) bool {
	if _, ok := rs.seen[rule.Trigger.URLFilter]; ok {
		return false
	}
	rs.seen[rule.Trigger.URLFilter] = struct{}{}
	rs.rules = append(rs.rules, rule)
	return true
}

// Rules returns the retained rules in insertion order.
// The returned slice is owned by the RuleSet and must not be modified.
func (rs *RuleSet) Rules() []Rule {
	return rs.rules
}

// Len returns the number of retained rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}
