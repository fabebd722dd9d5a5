package navigator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hompulse/console/internal/api"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// fakeBackend serves scripted lists. A path with a gate blocks until the gate is closed
// or the context ends, which lets tests hold responses in flight.
type fakeBackend struct {
	mu        sync.Mutex
	lists     map[string][]model.HierarchyNode
	errs      map[string]error
	gates     map[string]chan struct{}
	started   chan string
	listCalls []string
	creates   []map[string]any
	createErr error
	nextID    int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		lists: map[string][]model.HierarchyNode{
			"/geo/zones": {{ID: 7, Name: "North"}, {ID: 8, Name: "South"}},
			"/geo/zones/7/states": {
				{ID: 70, Name: "Punjab"},
				{ID: 71, Name: "Haryana"},
			},
			"/geo/zones/8/states":         {{ID: 80, Name: "Kerala"}},
			"/geo/states/70/regions":      {{ID: 700, Name: "Doaba"}},
			"/geo/regions/700/areas":      {{ID: 7000, Name: "Jalandhar"}},
			"/geo/areas/7000/territories": {{ID: 70000, Name: "Nakodar"}},
		},
		errs:    map[string]error{},
		gates:   map[string]chan struct{}{},
		started: make(chan string, 16),
		nextID:  1000,
	}
}

func (f *fakeBackend) ListNodes(ctx context.Context, path string) ([]model.HierarchyNode, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, path)
	gate := f.gates[path]
	f.mu.Unlock()

	select {
	case f.started <- path:
	default:
	}

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[path]; err != nil {
		return nil, err
	}
	return append([]model.HierarchyNode(nil), f.lists[path]...), nil
}

func (f *fakeBackend) CreateNode(ctx context.Context, path string, payload map[string]any) (model.HierarchyNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, payload)
	if f.createErr != nil {
		return model.HierarchyNode{}, f.createErr
	}

	f.nextID++
	node := model.HierarchyNode{ID: f.nextID, Name: payload["name"].(string)}
	listPath := path
	if zoneID, ok := payload["zone_id"]; ok {
		listPath = fmt.Sprintf("/geo/zones/%v/states", zoneID)
	}
	f.lists[listPath] = append(f.lists[listPath], node)
	return node, nil
}

func (f *fakeBackend) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.listCalls {
		if p == path {
			n++
		}
	}
	return n
}

func (f *fakeBackend) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.listCalls)
}

func (f *fakeBackend) gate(path string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[path] = ch
	return ch
}

func newTestNavigator(t *testing.T, backend Backend) *Navigator {
	t.Helper()
	nav, err := New(GeographyLevels(), backend, log.NewWriterLogger(io.Discard, log.LevelDebug))
	require.NoError(t, err)
	return nav
}

func waitStarted(t *testing.T, f *fakeBackend, path string) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case p := <-f.started:
			if p == path {
				return
			}
		case <-timeout:
			t.Fatalf("request %s never started", path)
		}
	}
}

// assertContiguous checks that selections exist for exactly the levels above the active one
func assertContiguous(t *testing.T, nav *Navigator) {
	t.Helper()
	snap := nav.Snapshot()
	levels := nav.Levels()

	activeIdx := -1
	for i, lv := range levels {
		if lv.Key == snap.ActiveLevelKey {
			activeIdx = i
		}
	}
	require.NotEqual(t, -1, activeIdx)
	require.Len(t, snap.Selection, activeIdx)
	for i, crumb := range snap.Selection {
		assert.Equal(t, levels[i].Key, crumb.LevelKey)
	}
}

func TestInitializeLoadsRoot(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)

	nodes, err := nav.Initialize(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	snap := nav.Snapshot()
	assert.Equal(t, "zone", snap.ActiveLevelKey)
	assert.Empty(t, snap.Selection)
	assert.Equal(t, []model.HierarchyNode{
		{ID: 7, Name: "North", LevelKey: "zone"},
		{ID: 8, Name: "South", LevelKey: "zone"},
	}, snap.DataByLevel["zone"])
}

func TestSelectZoneLoadsStates(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)

	states, err := nav.Select(context.Background(), model.HierarchyNode{ID: 7, Name: "North"})
	require.NoError(t, err)
	assert.Len(t, states, 2)

	snap := nav.Snapshot()
	assert.Equal(t, "state", snap.ActiveLevelKey)
	require.Len(t, snap.Selection, 1)
	assert.Equal(t, "zone", snap.Selection[0].LevelKey)
	assert.Equal(t, int64(7), snap.Selection[0].Node.ID)
	assert.Equal(t, "North", snap.Selection[0].Node.Name)
	assert.Equal(t, "Punjab", snap.DataByLevel["state"][0].Name)
	assert.Equal(t, 1, backend.callCount("/geo/zones/7/states"))
}

func TestCreateStatePostsParentKey(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)
	_, err = nav.Select(context.Background(), model.HierarchyNode{ID: 7, Name: "North"})
	require.NoError(t, err)

	node, err := nav.Create(context.Background(), "Uttar Pradesh")
	require.NoError(t, err)

	require.Len(t, backend.creates, 1)
	assert.Equal(t, map[string]any{"name": "Uttar Pradesh", "zone_id": int64(7)}, backend.creates[0])

	states, _ := nav.List("state")
	require.Len(t, states, 3)
	last := states[len(states)-1]
	assert.Equal(t, node.ID, last.ID)
	assert.Equal(t, "Uttar Pradesh", last.Name)
}

func TestCreateThenRefreshRoundTrip(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)
	_, err = nav.Select(context.Background(), model.HierarchyNode{ID: 7})
	require.NoError(t, err)

	created, err := nav.Create(context.Background(), "Himachal")
	require.NoError(t, err)

	refreshed, err := nav.Refresh(context.Background())
	require.NoError(t, err)
	assert.Contains(t, refreshed, model.HierarchyNode{ID: created.ID, Name: "Himachal", LevelKey: "state"})
}

func TestCreateAtRootOmitsParentKey(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)

	_, err = nav.Create(context.Background(), "  East  ")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "East"}, backend.creates[0])
}

func TestCreateRejectsEmptyName(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)

	_, err = nav.Create(context.Background(), "   ")
	var mErr *MutationError
	require.ErrorAs(t, err, &mErr)
	assert.Empty(t, backend.creates)
}

func TestCreateRequiresLoadedLevel(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)

	_, err := nav.Create(context.Background(), "East")
	var stale *StaleStateError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, ReasonNotLoaded, stale.Reason)
}

func TestCreateFailureLeavesStateUnchanged(t *testing.T) {
	backend := newFakeBackend()
	backend.createErr = &api.Error{Method: "POST", Path: "/geo/states", StatusCode: 400, Detail: "State already exists"}
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)
	_, err = nav.Select(context.Background(), model.HierarchyNode{ID: 7})
	require.NoError(t, err)
	before := nav.Snapshot()

	_, err = nav.Create(context.Background(), "Punjab")
	var mErr *MutationError
	require.ErrorAs(t, err, &mErr)
	assert.Equal(t, "State already exists", mErr.Detail)
	assert.Equal(t, "state", mErr.Level)
	assert.Equal(t, before, nav.Snapshot())
}

func TestSelectAtLeafRejected(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)

	for _, id := range []int64{7, 70, 700, 7000} {
		_, err := nav.Select(ctx, model.HierarchyNode{ID: id})
		require.NoError(t, err)
	}
	require.Equal(t, "territory", nav.ActiveLevel().Key)
	before := nav.Snapshot()
	calls := backend.totalCalls()

	_, err = nav.Select(ctx, model.HierarchyNode{ID: 70000, Name: "Nakodar"})
	var leaf *LeafLevelError
	require.ErrorAs(t, err, &leaf)
	assert.Equal(t, "territory", leaf.Level)
	assert.Equal(t, before, nav.Snapshot())
	assert.Equal(t, calls, backend.totalCalls())
}

func TestLateResponseIsDiscarded(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)

	gateA := backend.gate("/geo/zones/7/states")
	var errA error
	doneA := make(chan struct{})
	go func() {
		_, errA = nav.Select(ctx, model.HierarchyNode{ID: 7, Name: "North"})
		close(doneA)
	}()
	waitStarted(t, backend, "/geo/zones/7/states")
	assert.Equal(t, []string{"select:zone"}, nav.InFlight())

	_, err = nav.Select(ctx, model.HierarchyNode{ID: 8, Name: "South"})
	require.NoError(t, err)

	close(gateA)
	<-doneA

	var stale *StaleStateError
	require.ErrorAs(t, errA, &stale)
	assert.Equal(t, ReasonSuperseded, stale.Reason)

	snap := nav.Snapshot()
	assert.Equal(t, "state", snap.ActiveLevelKey)
	require.Len(t, snap.Selection, 1)
	assert.Equal(t, int64(8), snap.Selection[0].Node.ID)
	assert.Equal(t, []model.HierarchyNode{{ID: 80, Name: "Kerala", LevelKey: "state"}}, snap.DataByLevel["state"])
	assert.Empty(t, nav.InFlight())
}

func TestEarlierResponseArrivingFirstIsDiscarded(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)

	gateA := backend.gate("/geo/zones/7/states")
	gateB := backend.gate("/geo/zones/8/states")

	var errA, errB error
	doneA, doneB := make(chan struct{}), make(chan struct{})
	go func() {
		_, errA = nav.Select(ctx, model.HierarchyNode{ID: 7})
		close(doneA)
	}()
	waitStarted(t, backend, "/geo/zones/7/states")
	go func() {
		_, errB = nav.Select(ctx, model.HierarchyNode{ID: 8})
		close(doneB)
	}()
	waitStarted(t, backend, "/geo/zones/8/states")

	close(gateA)
	<-doneA
	var stale *StaleStateError
	require.ErrorAs(t, errA, &stale)
	assert.Equal(t, "zone", nav.ActiveLevel().Key)

	close(gateB)
	<-doneB
	require.NoError(t, errB)
	snap := nav.Snapshot()
	assert.Equal(t, int64(8), snap.Selection[0].Node.ID)
}

func TestJumpDuringSelectDiscardsResult(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)
	_, err = nav.Select(ctx, model.HierarchyNode{ID: 7})
	require.NoError(t, err)

	gate := backend.gate("/geo/states/70/regions")
	var selErr error
	done := make(chan struct{})
	go func() {
		_, selErr = nav.Select(ctx, model.HierarchyNode{ID: 70})
		close(done)
	}()
	waitStarted(t, backend, "/geo/states/70/regions")

	require.NoError(t, nav.JumpTo("zone"))
	close(gate)
	<-done

	var stale *StaleStateError
	require.ErrorAs(t, selErr, &stale)
	assert.Equal(t, "zone", nav.ActiveLevel().Key)
	assertContiguous(t, nav)
}

func TestSelectFetchFailureLeavesStateUnchanged(t *testing.T) {
	backend := newFakeBackend()
	backend.errs["/geo/zones/7/states"] = errors.New("connection reset")
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)
	before := nav.Snapshot()

	_, err = nav.Select(ctx, model.HierarchyNode{ID: 7, Name: "North"})
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "zone", fe.Level)
	assert.Equal(t, "state", fe.Target)
	assert.Equal(t, int64(7), fe.NodeID)
	assert.Equal(t, ReasonNetwork, fe.Reason)
	assert.Equal(t, before, nav.Snapshot())
}

func TestSelectServerErrorReason(t *testing.T) {
	backend := newFakeBackend()
	backend.errs["/geo/zones/7/states"] = &api.Error{Method: "GET", Path: "/geo/zones/7/states", StatusCode: 500}
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)

	_, err = nav.Select(context.Background(), model.HierarchyNode{ID: 7})
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonServer, fe.Reason)
}

func TestSelectTimeout(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)
	backend.gate("/geo/zones/7/states")
	before := nav.Snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = nav.Select(ctx, model.HierarchyNode{ID: 7})

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ReasonTimeout, fe.Reason)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, before, nav.Snapshot())
}

func TestSelectClearsDeeperLevels(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)

	for _, id := range []int64{7, 70, 700} {
		_, err := nav.Select(ctx, model.HierarchyNode{ID: id})
		require.NoError(t, err)
	}
	require.NoError(t, nav.JumpTo("state"))
	_, err = nav.Select(ctx, model.HierarchyNode{ID: 70})
	require.NoError(t, err)

	snap := nav.Snapshot()
	assert.Equal(t, "region", snap.ActiveLevelKey)
	assert.NotEmpty(t, snap.DataByLevel["region"])
	assert.NotContains(t, snap.DataByLevel, "area")
	assert.NotContains(t, snap.DataByLevel, "territory")
}

func TestJumpToIsIdempotentAndOffline(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)
	for _, id := range []int64{7, 70} {
		_, err := nav.Select(ctx, model.HierarchyNode{ID: id})
		require.NoError(t, err)
	}
	calls := backend.totalCalls()

	require.NoError(t, nav.JumpTo("state"))
	first := nav.Snapshot()
	require.NoError(t, nav.JumpTo("state"))
	second := nav.Snapshot()

	assert.Equal(t, first, second)
	assert.Equal(t, "state", second.ActiveLevelKey)
	require.Len(t, second.Selection, 1)
	assert.Equal(t, "zone", second.Selection[0].LevelKey)
	assert.Equal(t, calls, backend.totalCalls())
}

func TestJumpToUnvisitedLevel(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)

	err = nav.JumpTo("area")
	var stale *StaleStateError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, ReasonNotVisited, stale.Reason)

	err = nav.JumpTo("district")
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, ReasonUnknown, stale.Reason)
}

func TestJumpToUnloadedRoot(t *testing.T) {
	backend := newFakeBackend()
	backend.errs["/geo/zones"] = errors.New("offline")
	nav := newTestNavigator(t, backend)

	_, err := nav.Initialize(context.Background())
	require.Error(t, err)

	err = nav.JumpTo("zone")
	var stale *StaleStateError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, ReasonNotLoaded, stale.Reason)
}

func TestInitializeCoalescesConcurrentCalls(t *testing.T) {
	backend := newFakeBackend()
	gate := backend.gate("/geo/zones")
	nav := newTestNavigator(t, backend)

	var wg sync.WaitGroup
	results := make([][]model.HierarchyNode, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = nav.Initialize(context.Background())
		}(i)
		if i == 0 {
			waitStarted(t, backend, "/geo/zones")
		}
	}
	// Give the second caller time to join the pending fetch
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []string{"root"}, nav.InFlight())
	close(gate)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, 1, backend.callCount("/geo/zones"))
}

func TestResetReturnsToRoot(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)
	for _, id := range []int64{7, 70} {
		_, err := nav.Select(ctx, model.HierarchyNode{ID: id})
		require.NoError(t, err)
	}

	_, err = nav.Reset(ctx)
	require.NoError(t, err)
	snap := nav.Snapshot()
	assert.Equal(t, "zone", snap.ActiveLevelKey)
	assert.Empty(t, snap.Selection)
	assert.Len(t, snap.DataByLevel, 1)
	assert.Equal(t, 2, backend.callCount("/geo/zones"))
}

func TestCreateAfterNavigationIsNotAppended(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)
	_, err = nav.Select(ctx, model.HierarchyNode{ID: 7})
	require.NoError(t, err)

	slow := &slowCreateBackend{fakeBackend: backend, release: make(chan struct{}), entered: make(chan struct{})}
	nav.backend = slow

	var created model.HierarchyNode
	var createErr error
	done := make(chan struct{})
	go func() {
		created, createErr = nav.Create(ctx, "Delhi")
		close(done)
	}()
	<-slow.entered
	require.NoError(t, nav.JumpTo("zone"))
	_, err = nav.Select(ctx, model.HierarchyNode{ID: 8})
	require.NoError(t, err)
	close(slow.release)
	<-done

	require.NoError(t, createErr)
	assert.Equal(t, "Delhi", created.Name)
	states, _ := nav.List("state")
	assert.Equal(t, []model.HierarchyNode{{ID: 80, Name: "Kerala", LevelKey: "state"}}, states)
}

func TestCreateSurvivesFailedSelect(t *testing.T) {
	backend := newFakeBackend()
	backend.errs["/geo/states/70/regions"] = errors.New("connection reset")
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)
	_, err = nav.Select(ctx, model.HierarchyNode{ID: 7})
	require.NoError(t, err)

	slow := &slowCreateBackend{fakeBackend: backend, release: make(chan struct{}), entered: make(chan struct{})}
	nav.backend = slow

	var created model.HierarchyNode
	var createErr error
	done := make(chan struct{})
	go func() {
		created, createErr = nav.Create(ctx, "Delhi")
		close(done)
	}()
	<-slow.entered
	_, err = nav.Select(ctx, model.HierarchyNode{ID: 70})
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	close(slow.release)
	<-done

	require.NoError(t, createErr)
	assert.Equal(t, "state", nav.ActiveLevel().Key)
	states, _ := nav.List("state")
	require.Len(t, states, 3)
	assert.Equal(t, model.HierarchyNode{ID: created.ID, Name: "Delhi", LevelKey: "state"}, states[2])
}

func TestRefreshSurvivesFailedSelect(t *testing.T) {
	backend := newFakeBackend()
	backend.errs["/geo/states/70/regions"] = errors.New("connection reset")
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)
	_, err = nav.Select(ctx, model.HierarchyNode{ID: 7})
	require.NoError(t, err)

	for len(backend.started) > 0 {
		<-backend.started
	}
	gate := backend.gate("/geo/zones/7/states")
	var refreshed []model.HierarchyNode
	var refreshErr error
	done := make(chan struct{})
	go func() {
		refreshed, refreshErr = nav.Refresh(ctx)
		close(done)
	}()
	waitStarted(t, backend, "/geo/zones/7/states")
	_, err = nav.Select(ctx, model.HierarchyNode{ID: 70})
	require.Error(t, err)
	close(gate)
	<-done

	require.NoError(t, refreshErr)
	assert.Len(t, refreshed, 2)
}

type slowCreateBackend struct {
	*fakeBackend
	entered chan struct{}
	release chan struct{}
}

func (s *slowCreateBackend) CreateNode(ctx context.Context, path string, payload map[string]any) (model.HierarchyNode, error) {
	close(s.entered)
	<-s.release
	return s.fakeBackend.CreateNode(ctx, path, payload)
}

func TestSelectionPathStaysContiguous(t *testing.T) {
	backend := newFakeBackend()
	backend.errs["/geo/regions/700/areas"] = errors.New("boom")
	nav := newTestNavigator(t, backend)
	ctx := context.Background()

	steps := []func(){
		func() { nav.Initialize(ctx) },
		func() { nav.Select(ctx, model.HierarchyNode{ID: 7}) },
		func() { nav.Select(ctx, model.HierarchyNode{ID: 70}) },
		func() { nav.Select(ctx, model.HierarchyNode{ID: 700}) },
		func() { nav.JumpTo("zone") },
		func() { nav.JumpTo("region") },
		func() { nav.Select(ctx, model.HierarchyNode{ID: 8}) },
		func() { nav.Create(ctx, "Goa") },
		func() { nav.JumpTo("territory") },
		func() { nav.Refresh(ctx) },
		func() { nav.Reset(ctx) },
	}
	for _, step := range steps {
		step()
		assertContiguous(t, nav)
	}
}

func TestFindNodeAndBreadcrumb(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	ctx := context.Background()
	_, err := nav.Initialize(ctx)
	require.NoError(t, err)

	node, ok := nav.FindNode("south")
	require.True(t, ok)
	assert.Equal(t, int64(8), node.ID)

	node, ok = nav.FindNode("7")
	require.True(t, ok)
	_, err = nav.Select(ctx, node)
	require.NoError(t, err)

	_, ok = nav.FindNode("North")
	assert.False(t, ok)

	crumbs := nav.Breadcrumb()
	require.Len(t, crumbs, 1)
	assert.Equal(t, "Zone", crumbs[0].DisplayName)
	assert.Equal(t, "North", crumbs[0].Node.Name)
}

func TestSelectRejectsNodeFromOtherLevel(t *testing.T) {
	backend := newFakeBackend()
	nav := newTestNavigator(t, backend)
	_, err := nav.Initialize(context.Background())
	require.NoError(t, err)

	_, err = nav.Select(context.Background(), model.HierarchyNode{ID: 70, LevelKey: "state"})
	var stale *StaleStateError
	assert.ErrorAs(t, err, &stale)
}
