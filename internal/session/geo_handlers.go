package session

import (
	"context"
	"fmt"
	"strings"

	"hompulse/console/internal/model"
	"hompulse/console/internal/ui"
)

func geoHandlers() map[string]CommandHandler {
	return map[string]CommandHandler{
		"ls":      handleGeoList,
		"select":  handleGeoSelect,
		"jump":    handleGeoJump,
		"add":     handleGeoAdd,
		"reset":   handleGeoReset,
		"refresh": handleGeoRefresh,
		"path":    handleGeoPath,
	}
}

// ensureRoot loads the root list the first time the hierarchy is used
func ensureRoot(ctx context.Context, s *Session) error {
	levels := s.Navigator.Levels()
	if _, loaded := s.Navigator.List(levels[0].Key); loaded {
		return nil
	}
	_, err := s.Navigator.Initialize(ctx)
	return err
}

// levelTable renders the active level's list
func levelTable(s *Session) *ui.Table {
	level := s.Navigator.ActiveLevel()
	title := level.DisplayName
	if path := s.Path(); len(path) > 0 {
		title = fmt.Sprintf("%s in %s", level.DisplayName, strings.Join(path, "/"))
	}
	t := ui.NewTable(title, "ID", "NAME")
	for _, node := range s.Navigator.Current() {
		t.Add(node.ID, node.Name)
	}
	return t
}

func handleGeoList(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	if err := ensureRoot(ctx, s); err != nil {
		return nil, err
	}
	return levelTable(s), nil
}

// handleGeoSelect handles 'geo select <id|name>' and drills into the node
func handleGeoSelect(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	ref := strings.Join(cmd.Positional(), " ")
	if ref == "" {
		return nil, fmt.Errorf("geo select: missing <id|name>")
	}
	if err := ensureRoot(ctx, s); err != nil {
		return nil, err
	}
	node, ok := s.Navigator.FindNode(ref)
	if !ok {
		return nil, fmt.Errorf("no %s matches %q", strings.ToLower(s.Navigator.ActiveLevel().DisplayName), ref)
	}
	if _, err := s.Navigator.Select(ctx, node); err != nil {
		return nil, err
	}
	return levelTable(s), nil
}

// handleGeoJump handles 'geo jump <level>' where level is a key or display name
func handleGeoJump(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	ref, err := positional(cmd, 0, "level")
	if err != nil {
		return nil, err
	}
	key := ref
	for _, lv := range s.Navigator.Levels() {
		if strings.EqualFold(lv.Key, ref) || strings.EqualFold(lv.DisplayName, ref) {
			key = lv.Key
			break
		}
	}
	if err := s.Navigator.JumpTo(key); err != nil {
		return nil, err
	}
	return levelTable(s), nil
}

// handleGeoAdd handles 'geo add <name>' at the active level
func handleGeoAdd(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	if err := ensureRoot(ctx, s); err != nil {
		return nil, err
	}
	node, err := s.Navigator.Create(ctx, strings.Join(cmd.Positional(), " "))
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("Created %s %q (id %d)", s.Navigator.ActiveLevel().DisplayName, node.Name, node.ID), nil
}

func handleGeoReset(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	if _, err := s.Navigator.Reset(ctx); err != nil {
		return nil, err
	}
	return levelTable(s), nil
}

func handleGeoRefresh(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	if err := ensureRoot(ctx, s); err != nil {
		return nil, err
	}
	if _, err := s.Navigator.Refresh(ctx); err != nil {
		return nil, err
	}
	return levelTable(s), nil
}

// handleGeoPath shows the breadcrumb from the root to the active level
func handleGeoPath(ctx context.Context, s *Session, cmd model.Command) (interface{}, error) {
	t := ui.NewTable("Path", "LEVEL", "ID", "NAME")
	for _, c := range s.Navigator.Breadcrumb() {
		t.Add(c.DisplayName, c.Node.ID, c.Node.Name)
	}
	t.Footer = "Active level: " + s.Navigator.ActiveLevel().DisplayName
	return t, nil
}
