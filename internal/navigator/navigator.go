// Package navigator implements the cascading parent-to-child drill-down used by the
// hierarchy screens: one active level, a contiguous selection path from the root,
// and a lazily loaded list per level.
package navigator

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"hompulse/console/internal/api"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// Backend performs the network round-trips of the navigator
type Backend interface {
	ListNodes(ctx context.Context, path string) ([]model.HierarchyNode, error)
	CreateNode(ctx context.Context, path string, payload map[string]any) (model.HierarchyNode, error)
}

// Navigator owns the navigation state of one hierarchy.
// The mutex is never held across a network call; results are checked against the
// generation counter before they are applied. The generation moves only when the
// navigation state changes, so a select that fails leaves other requests valid.
// Concurrent selects are ordered by their own counter and the newest one wins.
type Navigator struct {
	levels  []level
	index   map[string]int
	backend Backend
	logger  *log.Logger
	root    singleflight.Group

	mu         sync.Mutex
	active     int
	selection  []model.HierarchyNode // one entry per level above active
	data       map[string][]model.HierarchyNode
	loaded     map[string]bool
	generation uint64
	selects    uint64
	inflight   map[string]int
}

// New validates the level chain and creates a navigator positioned at the root.
// Call Initialize to load the root list.
func New(levels []model.LevelDefinition, backend Backend, logger *log.Logger) (*Navigator, error) {
	compiled, err := compile(levels)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(compiled))
	for i, lv := range compiled {
		index[lv.def.Key] = i
	}

	return &Navigator{
		levels:   compiled,
		index:    index,
		backend:  backend,
		logger:   logger,
		data:     make(map[string][]model.HierarchyNode),
		loaded:   make(map[string]bool),
		inflight: make(map[string]int),
	}, nil
}

// Initialize resets the navigator to the root level and loads the root list.
// Concurrent calls share a single root fetch.
func (n *Navigator) Initialize(ctx context.Context) ([]model.HierarchyNode, error) {
	v, err, shared := n.root.Do("root", func() (interface{}, error) {
		return n.loadRoot(ctx)
	})
	if shared {
		n.logger.Debug(ctx, "Joined in-flight root fetch", nil)
	}
	if err != nil {
		return nil, err
	}
	return cloneNodes(v.([]model.HierarchyNode)), nil
}

// Reset discards the selection path and all loaded lists, then reloads the root list
func (n *Navigator) Reset(ctx context.Context) ([]model.HierarchyNode, error) {
	n.logger.Info(ctx, "Resetting navigator", log.Fields{"root": n.levels[0].def.Key})
	return n.Initialize(ctx)
}

func (n *Navigator) loadRoot(ctx context.Context) ([]model.HierarchyNode, error) {
	root := n.levels[0]

	n.mu.Lock()
	n.generation++
	gen := n.generation
	n.active = 0
	n.selection = nil
	n.data = make(map[string][]model.HierarchyNode)
	n.loaded = make(map[string]bool)
	n.begin("root")
	n.mu.Unlock()

	nodes, err := n.fetch(ctx, root.listPath)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.end("root")

	if err != nil {
		fe := fetchError(root.def.Key, root.def.Key, 0, err)
		n.logger.Error(ctx, "Root fetch failed", log.Fields{"level": root.def.Key, "reason": fe.Reason, "error": err})
		return nil, fe
	}
	if gen != n.generation {
		return nil, &StaleStateError{Level: root.def.Key, Reason: ReasonSuperseded}
	}

	nodes = tagNodes(nodes, root.def.Key)
	n.data[root.def.Key] = nodes
	n.loaded[root.def.Key] = true
	n.logger.Info(ctx, "Root level loaded", log.Fields{"level": root.def.Key, "count": len(nodes)})
	return nodes, nil
}

// Select drills into node at the active level and returns the child list.
// On failure the selection path and active level are left as they were.
func (n *Navigator) Select(ctx context.Context, node model.HierarchyNode) ([]model.HierarchyNode, error) {
	n.mu.Lock()
	issued := n.active
	cur := n.levels[issued]
	if cur.def.IsLeaf() {
		n.mu.Unlock()
		return nil, &LeafLevelError{Level: cur.def.Key}
	}
	if node.LevelKey != "" && node.LevelKey != cur.def.Key {
		n.mu.Unlock()
		return nil, &StaleStateError{Level: cur.def.Key, Reason: "node belongs to level " + node.LevelKey}
	}
	childKey := cur.def.ChildLevelKey
	n.selects++
	seq := n.selects
	gen := n.generation
	op := "select:" + cur.def.Key
	n.begin(op)
	n.mu.Unlock()

	n.logger.Debug(ctx, "Selecting node", log.Fields{"level": cur.def.Key, "node_id": node.ID})
	children, err := n.fetch(ctx, func() (string, error) { return cur.childPath(node.ID) })

	n.mu.Lock()
	defer n.mu.Unlock()
	n.end(op)

	if err != nil {
		fe := fetchError(cur.def.Key, childKey, node.ID, err)
		n.logger.Error(ctx, "Child fetch failed", log.Fields{
			"level":   cur.def.Key,
			"node_id": node.ID,
			"reason":  fe.Reason,
			"error":   err,
		})
		return nil, fe
	}
	if seq != n.selects || gen != n.generation || n.active != issued {
		n.logger.Info(ctx, "Discarding superseded selection", log.Fields{"level": cur.def.Key, "node_id": node.ID})
		return nil, &StaleStateError{Level: cur.def.Key, Reason: ReasonSuperseded}
	}

	n.generation++
	node.LevelKey = cur.def.Key
	n.selection = append(n.selection[:issued], node)
	n.active = issued + 1
	n.clearFrom(n.active)
	children = tagNodes(children, childKey)
	n.data[childKey] = children
	n.loaded[childKey] = true

	n.logger.Info(ctx, "Drilled down", log.Fields{
		"level":   cur.def.Key,
		"node_id": node.ID,
		"child":   childKey,
		"count":   len(children),
	})
	return cloneNodes(children), nil
}

// JumpTo moves back to levelKey, dropping that level's selection and everything deeper.
// No network call is made; the level's list must already be loaded.
func (n *Navigator) JumpTo(levelKey string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	idx, ok := n.index[levelKey]
	if !ok {
		return &StaleStateError{Level: levelKey, Reason: ReasonUnknown}
	}
	if idx > n.active {
		return &StaleStateError{Level: levelKey, Reason: ReasonNotVisited}
	}
	if !n.loaded[levelKey] {
		return &StaleStateError{Level: levelKey, Reason: ReasonNotLoaded}
	}

	n.generation++
	n.selection = n.selection[:idx]
	n.active = idx
	n.clearFrom(idx + 1)

	n.logger.Debug(context.Background(), "Jumped to level", log.Fields{"level": levelKey})
	return nil
}

// Create posts a new node at the active level under the current parent selection.
// The node is appended to the active list only if no navigation happened meanwhile;
// it is returned either way.
func (n *Navigator) Create(ctx context.Context, name string) (model.HierarchyNode, error) {
	name = strings.TrimSpace(name)

	n.mu.Lock()
	issued := n.active
	cur := n.levels[issued]
	if name == "" {
		n.mu.Unlock()
		return model.HierarchyNode{}, &MutationError{Level: cur.def.Key, Detail: "name is required"}
	}
	if !n.loaded[cur.def.Key] {
		n.mu.Unlock()
		return model.HierarchyNode{}, &StaleStateError{Level: cur.def.Key, Reason: ReasonNotLoaded}
	}

	payload := map[string]any{"name": name}
	if !cur.def.IsRoot() {
		payload[cur.def.ParentForeignKeyName] = n.selection[issued-1].ID
	}
	gen := n.generation
	op := "create:" + cur.def.Key
	n.begin(op)
	n.mu.Unlock()

	path, err := cur.listPath()
	var node model.HierarchyNode
	if err == nil {
		node, err = n.backend.CreateNode(ctx, path, payload)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.end(op)

	if err != nil {
		n.logger.Warn(ctx, "Create failed", log.Fields{"level": cur.def.Key, "name": name, "error": err})
		return model.HierarchyNode{}, &MutationError{Level: cur.def.Key, Detail: api.Detail(err), Err: err}
	}

	node.LevelKey = cur.def.Key
	if node.Name == "" {
		node.Name = name
	}
	if gen == n.generation && n.active == issued && !containsID(n.data[cur.def.Key], node.ID) {
		n.data[cur.def.Key] = append(n.data[cur.def.Key], node)
	}

	n.logger.Info(ctx, "Node created", log.Fields{"level": cur.def.Key, "node_id": node.ID, "name": node.Name})
	return node, nil
}

// Refresh re-fetches the active level's list from the server
func (n *Navigator) Refresh(ctx context.Context) ([]model.HierarchyNode, error) {
	n.mu.Lock()
	issued := n.active
	cur := n.levels[issued]
	gen := n.generation

	var parent model.HierarchyNode
	pathFn := cur.listPath
	if issued > 0 {
		parent = n.selection[issued-1]
		parentLevel := n.levels[issued-1]
		pathFn = func() (string, error) { return parentLevel.childPath(parent.ID) }
	}
	op := "refresh:" + cur.def.Key
	n.begin(op)
	n.mu.Unlock()

	nodes, err := n.fetch(ctx, pathFn)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.end(op)

	if err != nil {
		fromLevel := cur.def.Key
		if issued > 0 {
			fromLevel = n.levels[issued-1].def.Key
		}
		return nil, fetchError(fromLevel, cur.def.Key, parent.ID, err)
	}
	if gen != n.generation || n.active != issued {
		return nil, &StaleStateError{Level: cur.def.Key, Reason: ReasonSuperseded}
	}

	nodes = tagNodes(nodes, cur.def.Key)
	n.data[cur.def.Key] = nodes
	n.loaded[cur.def.Key] = true
	return cloneNodes(nodes), nil
}

// ActiveLevel returns the definition of the active level
func (n *Navigator) ActiveLevel() model.LevelDefinition {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.levels[n.active].def
}

// Levels returns the level chain
func (n *Navigator) Levels() []model.LevelDefinition {
	out := make([]model.LevelDefinition, len(n.levels))
	for i, lv := range n.levels {
		out[i] = lv.def
	}
	return out
}

// List returns the loaded list of levelKey and whether it is loaded
func (n *Navigator) List(levelKey string) ([]model.HierarchyNode, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return cloneNodes(n.data[levelKey]), n.loaded[levelKey]
}

// Current returns the active level's list
func (n *Navigator) Current() []model.HierarchyNode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return cloneNodes(n.data[n.levels[n.active].def.Key])
}

// FindNode looks up ref in the active list, first as an id, then as a case-insensitive name
func (n *Navigator) FindNode(ref string) (model.HierarchyNode, bool) {
	nodes := n.Current()
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for _, node := range nodes {
			if node.ID == id {
				return node, true
			}
		}
	}
	for _, node := range nodes {
		if strings.EqualFold(node.Name, ref) {
			return node, true
		}
	}
	return model.HierarchyNode{}, false
}

// Breadcrumb returns the selection path from the root
func (n *Navigator) Breadcrumb() []model.Crumb {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.crumbs()
}

func (n *Navigator) crumbs() []model.Crumb {
	out := make([]model.Crumb, len(n.selection))
	for i, node := range n.selection {
		out[i] = model.Crumb{
			LevelKey:    n.levels[i].def.Key,
			DisplayName: n.levels[i].def.DisplayName,
			Node:        node,
		}
	}
	return out
}

// Snapshot returns a deep copy of the navigator state
func (n *Navigator) Snapshot() model.NavigatorState {
	n.mu.Lock()
	defer n.mu.Unlock()

	data := make(map[string][]model.HierarchyNode, len(n.data))
	for k, v := range n.data {
		if n.loaded[k] {
			data[k] = cloneNodes(v)
		}
	}
	return model.NavigatorState{
		ActiveLevelKey: n.levels[n.active].def.Key,
		Selection:      n.crumbs(),
		DataByLevel:    data,
	}
}

// InFlight returns the keys of operations waiting on the network, sorted
func (n *Navigator) InFlight() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.inflight))
	for k := range n.inflight {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// clearFrom drops the lists of level idx and every deeper level
func (n *Navigator) clearFrom(idx int) {
	for i := idx; i < len(n.levels); i++ {
		key := n.levels[i].def.Key
		delete(n.data, key)
		delete(n.loaded, key)
	}
}

func (n *Navigator) begin(op string) { n.inflight[op]++ }

func (n *Navigator) end(op string) {
	if n.inflight[op] <= 1 {
		delete(n.inflight, op)
		return
	}
	n.inflight[op]--
}

func (n *Navigator) fetch(ctx context.Context, path func() (string, error)) ([]model.HierarchyNode, error) {
	p, err := path()
	if err != nil {
		return nil, err
	}
	return n.backend.ListNodes(ctx, p)
}

func fetchError(levelKey, target string, nodeID int64, err error) *FetchError {
	reason := ReasonNetwork
	switch {
	case api.IsTimeout(err):
		reason = ReasonTimeout
	case api.StatusCode(err) != 0:
		reason = ReasonServer
	}
	return &FetchError{Level: levelKey, Target: target, NodeID: nodeID, Reason: reason, Err: err}
}

func tagNodes(nodes []model.HierarchyNode, key string) []model.HierarchyNode {
	out := make([]model.HierarchyNode, len(nodes))
	for i, node := range nodes {
		node.LevelKey = key
		out[i] = node
	}
	return out
}

func cloneNodes(nodes []model.HierarchyNode) []model.HierarchyNode {
	if nodes == nil {
		return nil
	}
	out := make([]model.HierarchyNode, len(nodes))
	copy(out, nodes)
	return out
}

func containsID(nodes []model.HierarchyNode, id int64) bool {
	for _, node := range nodes {
		if node.ID == id {
			return true
		}
	}
	return false
}
