package resource

// DerivedIndices are the query-ready views built from one Resources value.
type DerivedIndices struct {
	// Skills holds every bonus key of every action, once each.
	Skills Set
	// Costs holds, per resource name, the amount of the last action in
	// document order that lists it under items.
	Costs Amounts
	// Equipments is the union of every declared requirements list. It is
	// empty when no action declares requirements.
	Equipments Set
	// EquipmentsDeclared reports whether any action declared a requirements
	// field. Documents from schema versions without the field leave it false
	// and the payload omits the equipments index.
	EquipmentsDeclared bool
}

// Index derives the skill, cost and equipment indices of res.
//
// Actions are visited in document order, which makes the last-write-wins
// cost merge deterministic. Missing optional fields contribute nothing.
//
// Precondition: none; a nil res yields empty indices.
// Postcondition: Index has no side effects and equal inputs yield equal outputs.
func Index(res *Resources) DerivedIndices {
	var idx DerivedIndices
	if res == nil {
		return idx
	}
	for _, action := range res.Actions.All() {
		for skill := range action.Bonus.All() {
			idx.Skills.add(skill)
		}
		for name, amount := range action.Items.All() {
			idx.Costs.put(name, amount)
		}
		if action.Requirements.Declared() {
			idx.EquipmentsDeclared = true
			for _, equipment := range action.Requirements.names {
				idx.Equipments.add(equipment)
			}
		}
	}
	return idx
}
