package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchitectureID(t *testing.T) {
	t.Run("deterministic for identical inputs", func(t *testing.T) {
		a := ArchitectureID("Azure", "azure-quickstart-templates", "quickstarts/app/azuredeploy.json")
		b := ArchitectureID("Azure", "azure-quickstart-templates", "quickstarts/app/azuredeploy.json")
		assert.Equal(t, a, b)
		assert.Len(t, a, 64)
	})

	t.Run("distinct paths hash differently", func(t *testing.T) {
		a := ArchitectureID("o", "r", "a/azuredeploy.json")
		b := ArchitectureID("o", "r", "b/azuredeploy.json")
		assert.NotEqual(t, a, b)
	})

	t.Run("distinct repos hash differently", func(t *testing.T) {
		a := ArchitectureID("o", "r1", "azuredeploy.json")
		b := ArchitectureID("o", "r2", "azuredeploy.json")
		assert.NotEqual(t, a, b)
	})
}

func TestParsedTemplate_IsEmpty(t *testing.T) {
	t.Run("empty template is valid and empty", func(t *testing.T) {
		tmpl := &ParsedTemplate{}
		assert.True(t, tmpl.IsEmpty())
	})

	t.Run("any section makes it non-empty", func(t *testing.T) {
		tmpl := &ParsedTemplate{Outputs: []Output{{Name: "ip", Type: "string"}}}
		assert.False(t, tmpl.IsEmpty())
	})
}

func TestTemplateMetadata(t *testing.T) {
	t.Run("display name preference order", func(t *testing.T) {
		m := &TemplateMetadata{ItemDisplayName: "Display", Title: "Title", Name: "name"}
		assert.Equal(t, "Display", m.DisplayName())

		m.ItemDisplayName = ""
		assert.Equal(t, "Title", m.DisplayName())

		m.Title = ""
		assert.Equal(t, "name", m.DisplayName())
	})

	t.Run("description falls back to summary", func(t *testing.T) {
		m := &TemplateMetadata{Summary: "short"}
		assert.Equal(t, "short", m.Describe())

		m.Description = "long"
		assert.Equal(t, "long", m.Describe())
	})

	t.Run("nil metadata yields empty strings", func(t *testing.T) {
		var m *TemplateMetadata
		assert.Empty(t, m.DisplayName())
		assert.Empty(t, m.Describe())
	})
}

func TestArchitecture_ResourceCount(t *testing.T) {
	doc := &Architecture{ResourceTypes: []string{"Microsoft.Compute/virtualMachines", "Microsoft.Network/virtualNetworks"}}
	assert.Equal(t, 2, doc.ResourceCount())
}
