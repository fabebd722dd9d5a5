package model

// LevelDefinition describes one rank of a fixed parent->child hierarchy chain.
// Endpoint templates are RFC 6570 URI templates; child templates take {id}.
type LevelDefinition struct {
	Key                       string `json:"key" yaml:"key"`
	DisplayName               string `json:"display_name" yaml:"display_name"`
	ChildLevelKey             string `json:"child_level_key,omitempty" yaml:"child_level_key,omitempty"`
	ParentForeignKeyName      string `json:"parent_foreign_key_name,omitempty" yaml:"parent_foreign_key_name,omitempty"`
	ListEndpointTemplate      string `json:"list_endpoint_template" yaml:"list_endpoint_template"`
	ChildListEndpointTemplate string `json:"child_list_endpoint_template,omitempty" yaml:"child_list_endpoint_template,omitempty"`
}

// IsRoot reports whether the level has no parent
func (l LevelDefinition) IsRoot() bool {
	return l.ParentForeignKeyName == ""
}

// IsLeaf reports whether the level has no child level
func (l LevelDefinition) IsLeaf() bool {
	return l.ChildLevelKey == ""
}

// HierarchyNode is a server-owned record at one level of the hierarchy.
type HierarchyNode struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	LevelKey string `json:"-"`
}

// Crumb is one breadcrumb entry: a level and the node selected at it.
type Crumb struct {
	LevelKey    string
	DisplayName string
	Node        HierarchyNode
}

// NavigatorState is a point-in-time copy of the navigator state.
// Selection holds the breadcrumb trail from the root, one entry per level.
type NavigatorState struct {
	ActiveLevelKey string
	Selection      []Crumb
	DataByLevel    map[string][]HierarchyNode
}

// Selected returns the node selected at levelKey, if any
func (s NavigatorState) Selected(levelKey string) (HierarchyNode, bool) {
	for _, c := range s.Selection {
		if c.LevelKey == levelKey {
			return c.Node, true
		}
	}
	return HierarchyNode{}, false
}
