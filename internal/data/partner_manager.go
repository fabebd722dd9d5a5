package data

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"hompulse/console/internal/event"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

// PartnerManager manages the super-stockist, distributor and retailer lists
type PartnerManager struct {
	tiers  map[model.PartnerTier]*Collection[model.Partner]
	events *event.EventManager
	logger *log.Logger
}

// NewPartnerManager creates a partner manager rooted at /<prefix>/<tier>
func NewPartnerManager(client Client, prefix string, events *event.EventManager, logger *log.Logger) *PartnerManager {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "partners"
	}
	tiers := make(map[model.PartnerTier]*Collection[model.Partner], len(model.PartnerTiers))
	for _, tier := range model.PartnerTiers {
		path := fmt.Sprintf("/%s/%s", prefix, tier)
		tiers[tier] = NewCollection[model.Partner](client, string(tier), path, "partner", logger)
	}
	return &PartnerManager{tiers: tiers, events: events, logger: logger}
}

func (pm *PartnerManager) collection(tier model.PartnerTier) (*Collection[model.Partner], error) {
	c, ok := pm.tiers[tier]
	if !ok {
		return nil, fmt.Errorf("unknown partner tier %q", tier)
	}
	return c, nil
}

// List fetches the partners of one tier
func (pm *PartnerManager) List(ctx context.Context, tier model.PartnerTier) ([]model.Partner, error) {
	c, err := pm.collection(tier)
	if err != nil {
		return nil, err
	}
	return c.Fetch(ctx)
}

// ListAll fetches every tier concurrently; any failure fails the whole load
func (pm *PartnerManager) ListAll(ctx context.Context) (map[model.PartnerTier][]model.Partner, error) {
	results := make([][]model.Partner, len(model.PartnerTiers))
	g, gctx := errgroup.WithContext(ctx)
	for i, tier := range model.PartnerTiers {
		g.Go(func() error {
			items, err := pm.tiers[tier].Fetch(gctx)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[model.PartnerTier][]model.Partner, len(results))
	for i, tier := range model.PartnerTiers {
		out[tier] = results[i]
	}
	return out, nil
}

// Create adds a partner to tier
func (pm *PartnerManager) Create(ctx context.Context, tier model.PartnerTier, in model.PartnerInput) error {
	c, err := pm.collection(tier)
	if err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return invalid(string(tier), "create", "name is required")
	}
	if in.TerritoryID <= 0 {
		return invalid(string(tier), "create", "territory_id is required")
	}
	if err := c.Create(ctx, in); err != nil {
		return err
	}
	pm.events.Publish(event.Event{Type: event.PartnerChanged, Data: tier})
	return nil
}

// Update patches the given fields of a partner
func (pm *PartnerManager) Update(ctx context.Context, tier model.PartnerTier, id int64, patch map[string]any) error {
	c, err := pm.collection(tier)
	if err != nil {
		return err
	}
	if len(patch) == 0 {
		return invalid(string(tier), "update", "no fields to update")
	}
	if err := c.Update(ctx, id, patch); err != nil {
		return err
	}
	pm.events.Publish(event.Event{Type: event.PartnerChanged, Data: tier})
	return nil
}

// Toggle flips is_active of a partner and returns the new state
func (pm *PartnerManager) Toggle(ctx context.Context, tier model.PartnerTier, id int64) (bool, error) {
	c, err := pm.collection(tier)
	if err != nil {
		return false, err
	}
	partner, ok, err := c.Find(ctx, func(p model.Partner) bool { return p.ID == id })
	if err != nil {
		return false, err
	}
	if !ok {
		return false, invalid(string(tier), "toggle", fmt.Sprintf("no partner with id %d", id))
	}

	next := !partner.IsActive
	if err := c.Update(ctx, id, map[string]any{"is_active": next}); err != nil {
		return false, err
	}
	pm.events.Publish(event.Event{Type: event.PartnerChanged, Data: tier})
	return next, nil
}

// Items returns the last loaded list of tier
func (pm *PartnerManager) Items(tier model.PartnerTier) []model.Partner {
	c, err := pm.collection(tier)
	if err != nil {
		return nil
	}
	return c.Items()
}
