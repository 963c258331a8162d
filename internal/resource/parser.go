package resource

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

const (
	tagNull  = "!!null"
	tagBool  = "!!bool"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagMerge = "!!merge"
)

// Parse decodes a resource definition document from YAML text.
//
// Only the shape is checked: "actions" must be a mapping of action name to
// action, amounts must be numbers, checks must be booleans and requirements
// must be a list of names. Every other field is optional and a null value
// reads as absent. Unknown keys are ignored. Mapping order is preserved.
//
// Precondition: none; any byte slice is accepted.
// Postcondition: Returns a non-nil *Resources, or a *ParseError.
func Parse(data []byte) (*Resources, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Err: errors.New("document is empty")}
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, mismatch(root, "", "a mapping")
	}

	res := &Resources{}
	sawActions := false
	err := eachPair(root, "", func(key string, val *yaml.Node) error {
		switch key {
		case "actions":
			sawActions = true
			actions, err := parseActions(val, key)
			if err != nil {
				return err
			}
			res.Actions = actions
		case "deferred":
			deferred, err := parseDeferred(val, key)
			if err != nil {
				return err
			}
			res.Deferred = deferred
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !sawActions {
		return nil, &ParseError{Path: "actions", Line: root.Line, Err: errors.New("required mapping is missing")}
	}
	return res, nil
}

func parseActions(n *yaml.Node, path string) (Mapping[Action], error) {
	var actions Mapping[Action]
	if n.Kind != yaml.MappingNode {
		return actions, mismatch(n, path, "a mapping of action name to action")
	}
	err := eachPair(n, path, func(name string, val *yaml.Node) error {
		a, err := parseAction(val, joinPath(path, name))
		if err != nil {
			return err
		}
		actions.put(name, a)
		return nil
	})
	return actions, err
}

func parseAction(n *yaml.Node, path string) (Action, error) {
	var a Action
	if isNull(n) {
		return a, nil
	}
	if n.Kind != yaml.MappingNode {
		return a, mismatch(n, path, "a mapping")
	}
	err := eachPair(n, path, func(key string, val *yaml.Node) error {
		p := joinPath(path, key)
		var err error
		switch key {
		case "description":
			a.Description, err = parseText(val, p)
		case "items":
			a.Items, err = parseAmounts(val, p)
		case "bonus":
			a.Bonus, err = parseAmounts(val, p)
		case "requirements":
			a.Requirements, err = parseRequirements(val, p)
		}
		return err
	})
	return a, err
}

func parseDeferred(n *yaml.Node, path string) (Mapping[[]DeferredOutcome], error) {
	var deferred Mapping[[]DeferredOutcome]
	if isNull(n) {
		return deferred, nil
	}
	if n.Kind != yaml.MappingNode {
		return deferred, mismatch(n, path, "a mapping of action name to outcomes")
	}
	err := eachPair(n, path, func(name string, val *yaml.Node) error {
		p := joinPath(path, name)
		outcomes := []DeferredOutcome{}
		if isNull(val) {
			deferred.put(name, outcomes)
			return nil
		}
		if val.Kind != yaml.SequenceNode {
			return mismatch(val, p, "a list of outcomes")
		}
		for i, item := range val.Content {
			o, err := parseOutcome(resolve(item), fmt.Sprintf("%s[%d]", p, i))
			if err != nil {
				return err
			}
			outcomes = append(outcomes, o)
		}
		deferred.put(name, outcomes)
		return nil
	})
	return deferred, err
}

func parseOutcome(n *yaml.Node, path string) (DeferredOutcome, error) {
	var o DeferredOutcome
	if isNull(n) {
		return o, nil
	}
	if n.Kind != yaml.MappingNode {
		return o, mismatch(n, path, "a mapping")
	}
	err := eachPair(n, path, func(key string, val *yaml.Node) error {
		p := joinPath(path, key)
		var err error
		switch key {
		case "checks":
			o.Checks, err = parseChecks(val, p)
		case "result":
			o.Result, err = parseAmounts(val, p)
		}
		return err
	})
	return o, err
}

func parseAmounts(n *yaml.Node, path string) (Amounts, error) {
	var out Amounts
	if isNull(n) {
		return out, nil
	}
	if n.Kind != yaml.MappingNode {
		return out, mismatch(n, path, "a mapping of name to amount")
	}
	err := eachPair(n, path, func(name string, val *yaml.Node) error {
		p := joinPath(path, name)
		if val.Kind != yaml.ScalarNode {
			return mismatch(val, p, "a number")
		}
		if tag := val.ShortTag(); tag != tagInt && tag != tagFloat {
			return mismatch(val, p, "a number")
		}
		var amount float64
		if err := val.Decode(&amount); err != nil {
			return &ParseError{Path: p, Line: val.Line, Err: err}
		}
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			return mismatch(val, p, "a finite number")
		}
		out.put(name, amount)
		return nil
	})
	return out, err
}

func parseChecks(n *yaml.Node, path string) (Mapping[bool], error) {
	var out Mapping[bool]
	if isNull(n) {
		return out, nil
	}
	if n.Kind != yaml.MappingNode {
		return out, mismatch(n, path, "a mapping of condition to flag")
	}
	err := eachPair(n, path, func(name string, val *yaml.Node) error {
		p := joinPath(path, name)
		if val.Kind != yaml.ScalarNode || val.ShortTag() != tagBool {
			return mismatch(val, p, "a boolean")
		}
		var flag bool
		if err := val.Decode(&flag); err != nil {
			return &ParseError{Path: p, Line: val.Line, Err: err}
		}
		out.put(name, flag)
		return nil
	})
	return out, err
}

func parseRequirements(n *yaml.Node, path string) (Requirements, error) {
	if isNull(n) {
		return Requirements{}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return Requirements{}, mismatch(n, path, "a list of equipment names")
	}
	names := make([]string, 0, len(n.Content))
	for i, item := range n.Content {
		item = resolve(item)
		if item.Kind != yaml.ScalarNode || isNull(item) {
			return Requirements{}, mismatch(item, fmt.Sprintf("%s[%d]", path, i), "an equipment name")
		}
		names = append(names, item.Value)
	}
	return DeclareRequirements(names...), nil
}

func parseText(n *yaml.Node, path string) (string, error) {
	if isNull(n) {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", mismatch(n, path, "text")
	}
	return n.Value, nil
}

// eachPair calls fn for every key/value pair of the mapping node n in
// document order. Duplicate and merge keys are rejected.
func eachPair(n *yaml.Node, path string, fn func(key string, val *yaml.Node) error) error {
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := resolve(n.Content[i]), resolve(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return mismatch(k, path, "a scalar key")
		}
		if k.ShortTag() == tagMerge {
			return &ParseError{Path: path, Line: k.Line, Err: errors.New("merge keys are not supported")}
		}
		if seen[k.Value] {
			return &ParseError{Path: joinPath(path, k.Value), Line: k.Line, Err: errors.New("duplicate key")}
		}
		seen[k.Value] = true
		if err := fn(k.Value, v); err != nil {
			return err
		}
	}
	return nil
}

// resolve follows alias nodes to the node they name.
func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == tagNull
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func mismatch(n *yaml.Node, path, want string) *ParseError {
	return &ParseError{Path: path, Line: n.Line, Err: fmt.Errorf("expected %s, got %s", want, describe(n))}
}

func describe(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	case yaml.ScalarNode:
		if isNull(n) {
			return "null"
		}
		return fmt.Sprintf("%s %q", n.ShortTag(), n.Value)
	default:
		return "an unsupported node"
	}
}
