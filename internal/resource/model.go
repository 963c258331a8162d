// Package resource loads resource definition documents and derives the
// skill, cost and equipment indices a rendering layer consumes.
package resource

import "encoding/json"

// Amounts maps a resource or skill name to a numeric amount.
type Amounts = Mapping[float64]

// Action is a named operation: what it costs (Items), which skills it trains
// (Bonus) and which equipment it needs (Requirements).
type Action struct {
	// Description is optional free text; empty when the document omits it.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Items is the cost of performing the action, resource name to amount.
	Items Amounts `json:"items" yaml:"items"`
	// Bonus is the skill payoff, skill name to amount.
	Bonus Amounts `json:"bonus" yaml:"bonus"`
	// Requirements lists equipment names; absent in older schema versions.
	Requirements Requirements `json:"requirements,omitzero" yaml:"requirements,omitempty"`
}

// Requirements is the optional equipment list of an Action. The zero value
// means the action does not declare the field at all, which is distinct from
// declaring an empty list.
type Requirements struct {
	names    []string
	declared bool
}

// DeclareRequirements returns declared Requirements holding names in order.
//
// Postcondition: Declared() is true, even when names is empty.
func DeclareRequirements(names ...string) Requirements {
	r := Requirements{names: make([]string, len(names)), declared: true}
	copy(r.names, names)
	return r
}

// Declared reports whether the action carries a requirements field.
func (r Requirements) Declared() bool { return r.declared }

// Names returns a copy of the equipment names in declaration order. An
// undeclared list reads as empty.
func (r Requirements) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// IsZero reports whether the field is undeclared; encoders use it to omit
// the field.
func (r Requirements) IsZero() bool { return !r.declared }

func (r Requirements) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Names())
}

func (r Requirements) MarshalYAML() (interface{}, error) {
	return r.Names(), nil
}

// DeferredOutcome is a conditional result attached to an action. It is
// carried through to the payload untouched; nothing here evaluates Checks.
type DeferredOutcome struct {
	Checks Mapping[bool] `json:"checks" yaml:"checks"`
	Result Amounts       `json:"result" yaml:"result"`
}

// Resources is the root of a resource definition document.
type Resources struct {
	// Actions is keyed by action name in document order.
	Actions Mapping[Action] `json:"actions" yaml:"actions"`
	// Deferred maps an action name to its ordered conditional outcomes.
	Deferred Mapping[[]DeferredOutcome] `json:"deferred" yaml:"deferred"`
}
