package rewrite

import "github.com/abdidvp/vulnfix/internal/domain"

// Dispatcher routes a category to at most one rule.
type Dispatcher struct {
	order []Rule
	byCat map[domain.IssueCategory]Rule
}

// NewDispatcher registers rules by category. A later rule for the same
// category replaces an earlier one.
func NewDispatcher(rules ...Rule) *Dispatcher {
	d := &Dispatcher{byCat: make(map[domain.IssueCategory]Rule, len(rules))}
	for _, r := range rules {
		if _, dup := d.byCat[r.Category()]; !dup {
			d.order = append(d.order, r)
		} else {
			for i, existing := range d.order {
				if existing.Category() == r.Category() {
					d.order[i] = r
				}
			}
		}
		d.byCat[r.Category()] = r
	}
	return d
}

// RuleFor returns the rule registered for cat. Unclassified never has one.
func (d *Dispatcher) RuleFor(cat domain.IssueCategory) (Rule, bool) {
	if cat == domain.CategoryUnclassified {
		return nil, false
	}
	r, ok := d.byCat[cat]
	return r, ok
}

// Rules returns the registered rules in registration order.
func (d *Dispatcher) Rules() []Rule {
	out := make([]Rule, len(d.order))
	copy(out, d.order)
	return out
}
