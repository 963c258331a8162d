package resource_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/resources/internal/resource"
)

func payloadFor(t *testing.T, doc string) resource.Payload {
	t.Helper()
	res, err := resource.Parse([]byte(doc))
	require.NoError(t, err)
	return resource.NewPayload(res, resource.Index(res))
}

func TestPayload_JSON(t *testing.T) {
	p := payloadFor(t, gistYAML)
	require.NotNil(t, p.Equipments)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"actions": {
			"mine": {"description": "Dig for ore.", "items": {"wood": 2, "torch": 1}, "bonus": {"mining": 1}},
			"chop": {"items": {"wood": 1}, "bonus": {"woodcutting": 1.5}, "requirements": ["axe"]}
		},
		"deferred": {
			"mine": [
				{"checks": {"lucky": true, "cave_in": false}, "result": {"gem": 1}},
				{"checks": {}, "result": {"stone": 3}}
			]
		},
		"skills": ["mining", "woodcutting"],
		"costs": {"wood": 1, "torch": 1},
		"equipments": ["axe"]
	}`, string(data))
}

func TestPayload_JSONOmitsEquipmentsForLegacySchema(t *testing.T) {
	p := payloadFor(t, legacyYAML)
	assert.Nil(t, p.Equipments)

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "equipments")
	assert.Contains(t, decoded, "skills")
	assert.Contains(t, decoded, "costs")
	assert.Contains(t, decoded, "actions")
	assert.Contains(t, decoded, "deferred")
}

func TestPayload_DeclaredButEmptyRequirementsKeepsEquipments(t *testing.T) {
	p := payloadFor(t, "actions:\n  walk:\n    requirements: []\n")
	require.NotNil(t, p.Equipments)
	assert.Equal(t, 0, p.Equipments.Len())

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"equipments":[]`)
	assert.Contains(t, string(data), `"requirements":[]`)
}

func TestPayload_YAMLKeepsOrder(t *testing.T) {
	p := payloadFor(t, gistYAML)
	out, err := yaml.Marshal(p)
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(out, &node))
	root := node.Content[0]
	var keys []string
	for i := 0; i < len(root.Content); i += 2 {
		keys = append(keys, root.Content[i].Value)
	}
	assert.Equal(t, []string{"actions", "deferred", "skills", "costs", "equipments"}, keys)

	// The printed payload is itself a valid resource document.
	reparsed, err := resource.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"mine", "chop"}, reparsed.Actions.Keys())
}

func TestNewPayload_NilResources(t *testing.T) {
	p := resource.NewPayload(nil, resource.Index(nil))
	assert.Equal(t, 0, p.Actions.Len())
	assert.Nil(t, p.Equipments)
}
