package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hompulse/console/internal/model"
)

func TestGeographyLevelsAreValid(t *testing.T) {
	require.NoError(t, ValidateLevels(GeographyLevels()))
}

func TestValidateLevelsRejectsBrokenChains(t *testing.T) {
	geo := GeographyLevels

	tests := []struct {
		name   string
		levels func() []model.LevelDefinition
	}{
		{"empty", func() []model.LevelDefinition { return nil }},
		{"duplicate key", func() []model.LevelDefinition {
			l := geo()
			l[2].Key = "zone"
			return l
		}},
		{"gap", func() []model.LevelDefinition {
			l := geo()
			return append(l[:2], l[3:]...)
		}},
		{"branch", func() []model.LevelDefinition {
			l := geo()
			l[1].ChildLevelKey = "area"
			return l
		}},
		{"two roots", func() []model.LevelDefinition {
			l := geo()
			l[2].ParentForeignKeyName = ""
			return l
		}},
		{"root with parent key", func() []model.LevelDefinition {
			l := geo()
			l[0].ParentForeignKeyName = "country_id"
			return l
		}},
		{"no leaf", func() []model.LevelDefinition {
			l := geo()
			l[4].ChildLevelKey = "village"
			l[4].ChildListEndpointTemplate = "/geo/territories/{id}/villages"
			return l
		}},
		{"leaf in the middle", func() []model.LevelDefinition {
			l := geo()
			l[2].ChildLevelKey = ""
			return l
		}},
		{"missing child endpoint", func() []model.LevelDefinition {
			l := geo()
			l[1].ChildListEndpointTemplate = ""
			return l
		}},
		{"child endpoint without id", func() []model.LevelDefinition {
			l := geo()
			l[1].ChildListEndpointTemplate = "/geo/states/regions"
			return l
		}},
		{"unparsable template", func() []model.LevelDefinition {
			l := geo()
			l[0].ChildListEndpointTemplate = "/geo/zones/{id/states"
			return l
		}},
		{"missing list endpoint", func() []model.LevelDefinition {
			l := geo()
			l[3].ListEndpointTemplate = ""
			return l
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLevels(tt.levels())
			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestNewRejectsInvalidChain(t *testing.T) {
	_, err := New(nil, newFakeBackend(), nil)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTwoLevelChain(t *testing.T) {
	levels := []model.LevelDefinition{
		{Key: "region", DisplayName: "Region", ChildLevelKey: "area", ListEndpointTemplate: "/geo/regions", ChildListEndpointTemplate: "/geo/regions/{id}/areas"},
		{Key: "area", DisplayName: "Area", ParentForeignKeyName: "region_id", ListEndpointTemplate: "/geo/areas"},
	}
	compiled, err := compile(levels)
	require.NoError(t, err)

	path, err := compiled[0].childPath(42)
	require.NoError(t, err)
	assert.Equal(t, "/geo/regions/42/areas", path)

	path, err = compiled[1].listPath()
	require.NoError(t, err)
	assert.Equal(t, "/geo/areas", path)
}
