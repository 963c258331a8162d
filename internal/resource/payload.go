package resource

// Payload is the page data handed to the rendering layer: the original
// document merged with its derived indices.
type Payload struct {
	Actions  Mapping[Action]            `json:"actions" yaml:"actions"`
	Deferred Mapping[[]DeferredOutcome] `json:"deferred" yaml:"deferred"`
	Skills   Set                        `json:"skills" yaml:"skills"`
	Costs    Amounts                    `json:"costs" yaml:"costs"`
	// Equipments is nil when the document predates the requirements field.
	Equipments *Set `json:"equipments,omitempty" yaml:"equipments,omitempty"`
}

// NewPayload merges res with idx.
//
// Precondition: idx should be Index(res).
// Postcondition: Equipments is non-nil iff idx.EquipmentsDeclared.
func NewPayload(res *Resources, idx DerivedIndices) Payload {
	p := Payload{
		Skills: idx.Skills,
		Costs:  idx.Costs,
	}
	if res != nil {
		p.Actions = res.Actions
		p.Deferred = res.Deferred
	}
	if idx.EquipmentsDeclared {
		eq := idx.Equipments
		p.Equipments = &eq
	}
	return p
}
