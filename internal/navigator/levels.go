package navigator

import (
	"fmt"
	"slices"

	"github.com/yosida95/uritemplate/v3"

	"hompulse/console/internal/model"
)

// GeographyLevels returns the built-in Zone > State > Region > Area > Territory chain
func GeographyLevels() []model.LevelDefinition {
	return []model.LevelDefinition{
		{
			Key:                       "zone",
			DisplayName:               "Zone",
			ChildLevelKey:             "state",
			ListEndpointTemplate:      "/geo/zones",
			ChildListEndpointTemplate: "/geo/zones/{id}/states",
		},
		{
			Key:                       "state",
			DisplayName:               "State",
			ChildLevelKey:             "region",
			ParentForeignKeyName:      "zone_id",
			ListEndpointTemplate:      "/geo/states",
			ChildListEndpointTemplate: "/geo/states/{id}/regions",
		},
		{
			Key:                       "region",
			DisplayName:               "Region",
			ChildLevelKey:             "area",
			ParentForeignKeyName:      "state_id",
			ListEndpointTemplate:      "/geo/regions",
			ChildListEndpointTemplate: "/geo/regions/{id}/areas",
		},
		{
			Key:                       "area",
			DisplayName:               "Area",
			ChildLevelKey:             "territory",
			ParentForeignKeyName:      "region_id",
			ListEndpointTemplate:      "/geo/areas",
			ChildListEndpointTemplate: "/geo/areas/{id}/territories",
		},
		{
			Key:                  "territory",
			DisplayName:          "Territory",
			ParentForeignKeyName: "area_id",
			ListEndpointTemplate: "/geo/territories",
		},
	}
}

// level is a validated LevelDefinition with its parsed templates
type level struct {
	def   model.LevelDefinition
	list  *uritemplate.Template
	child *uritemplate.Template
}

// ValidateLevels checks that levels form a single linear chain
func ValidateLevels(levels []model.LevelDefinition) error {
	_, err := compile(levels)
	return err
}

func compile(defs []model.LevelDefinition) ([]level, error) {
	if len(defs) == 0 {
		return nil, &ConfigurationError{Reason: "no levels defined"}
	}

	seen := make(map[string]bool, len(defs))
	roots, leaves := 0, 0
	out := make([]level, 0, len(defs))

	for i, def := range defs {
		if def.Key == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("level %d has no key", i)}
		}
		if seen[def.Key] {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("level %q appears more than once (cycle)", def.Key)}
		}
		seen[def.Key] = true

		if def.IsRoot() {
			roots++
			if i != 0 {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("level %q has no parent foreign key but is not the root", def.Key)}
			}
		}
		if def.IsLeaf() {
			leaves++
			if i != len(defs)-1 {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("leaf level %q must be last", def.Key)}
			}
		} else if i+1 < len(defs) && def.ChildLevelKey != defs[i+1].Key {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("level %q points to %q but the next level is %q (branch or gap)", def.Key, def.ChildLevelKey, defs[i+1].Key)}
		}
		lv := level{def: def}
		if def.ListEndpointTemplate == "" {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("level %q has no list endpoint", def.Key)}
		}
		tpl, err := uritemplate.New(def.ListEndpointTemplate)
		if err != nil {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("level %q list endpoint: %v", def.Key, err)}
		}
		lv.list = tpl

		if !def.IsLeaf() {
			if def.ChildListEndpointTemplate == "" {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("level %q has no child list endpoint", def.Key)}
			}
			tpl, err := uritemplate.New(def.ChildListEndpointTemplate)
			if err != nil {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("level %q child list endpoint: %v", def.Key, err)}
			}
			if !slices.Contains(tpl.Varnames(), "id") {
				return nil, &ConfigurationError{Reason: fmt.Sprintf("level %q child list endpoint must use {id}", def.Key)}
			}
			lv.child = tpl
		}
		out = append(out, lv)
	}

	if roots != 1 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("expected exactly one root level, found %d", roots)}
	}
	if leaves != 1 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("expected exactly one leaf level, found %d", leaves)}
	}
	return out, nil
}

func (l level) listPath() (string, error) {
	return l.list.Expand(uritemplate.Values{})
}

func (l level) childPath(id int64) (string, error) {
	values := uritemplate.Values{}
	values.Set("id", uritemplate.String(fmt.Sprint(id)))
	return l.child.Expand(values)
}
