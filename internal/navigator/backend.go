package navigator

import (
	"context"

	"hompulse/console/internal/model"
)

// lister is the part of api.Client the backend needs
type lister interface {
	GetList(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
}

// APIBackend serves navigator round-trips from the REST API
type APIBackend struct {
	client lister
}

// NewAPIBackend adapts an API client to the Backend interface
func NewAPIBackend(client lister) *APIBackend {
	return &APIBackend{client: client}
}

// ListNodes fetches a node list, accepting a bare array or an envelope
func (b *APIBackend) ListNodes(ctx context.Context, path string) ([]model.HierarchyNode, error) {
	var nodes []model.HierarchyNode
	if err := b.client.GetList(ctx, path, &nodes); err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []model.HierarchyNode{}
	}
	return nodes, nil
}

// CreateNode posts payload to the level collection and returns the created node
func (b *APIBackend) CreateNode(ctx context.Context, path string, payload map[string]any) (model.HierarchyNode, error) {
	var node model.HierarchyNode
	if err := b.client.Post(ctx, path, payload, &node); err != nil {
		return model.HierarchyNode{}, err
	}
	return node, nil
}
