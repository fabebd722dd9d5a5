package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"hompulse/console/internal/event"
	"hompulse/console/internal/log"
	"hompulse/console/internal/model"
)

const (
	directorySize       = 16
	defaultDirectoryTTL = 5 * time.Minute
	failureTTL          = 15 * time.Second
)

// Directory resolves master-data ids to display names.
// Each list is cached as an id->name index until it expires or an event invalidates it.
// A failed load is remembered briefly so that rendering a table does not
// repeat the request for every row.
type Directory struct {
	client       Client
	partnerPaths map[model.PartnerTier]string
	cache        *expirable.LRU[string, map[int64]string]
	failures     *expirable.LRU[string, error]
	group        singleflight.Group
	logger       *log.Logger
}

// NewDirectory creates a directory whose entries live for ttl
func NewDirectory(client Client, partnerPrefix string, ttl time.Duration, logger *log.Logger) *Directory {
	if ttl <= 0 {
		ttl = defaultDirectoryTTL
	}
	partnerPrefix = strings.Trim(partnerPrefix, "/")
	if partnerPrefix == "" {
		partnerPrefix = "partners"
	}
	paths := make(map[model.PartnerTier]string, len(model.PartnerTiers))
	for _, tier := range model.PartnerTiers {
		paths[tier] = fmt.Sprintf("/%s/%s", partnerPrefix, tier)
	}
	return &Directory{
		client:       client,
		partnerPaths: paths,
		cache:        expirable.NewLRU[string, map[int64]string](directorySize, nil, ttl),
		failures:     expirable.NewLRU[string, error](directorySize, nil, min(failureTTL, ttl)),
		logger:       logger,
	}
}

// Subscribe wires cache invalidation to the mutation and session events
func (d *Directory) Subscribe(events *event.EventManager) {
	if events == nil {
		return
	}
	events.Subscribe(event.PartnerChanged, func(e event.Event) {
		if tier, ok := e.Data.(model.PartnerTier); ok {
			d.forget(partnerKey(tier))
			return
		}
		for _, tier := range model.PartnerTiers {
			d.forget(partnerKey(tier))
		}
	})
	events.Subscribe(event.ProductChanged, func(event.Event) { d.forget("product") })
	events.Subscribe(event.RoleChanged, func(event.Event) { d.forget("role") })
	events.Subscribe(event.ConsumerChanged, func(event.Event) { d.forget("consumer") })
	events.Subscribe(event.LoggedIn, func(event.Event) { d.Invalidate() })
	events.Subscribe(event.LoggedOut, func(event.Event) { d.Invalidate() })
}

func (d *Directory) forget(key string) {
	d.cache.Remove(key)
	d.failures.Remove(key)
}

func partnerKey(tier model.PartnerTier) string {
	return "partner:" + string(tier)
}

// index returns the cached index for key, loading it once for concurrent callers
func (d *Directory) index(ctx context.Context, key string, load func(context.Context) (map[int64]string, error)) (map[int64]string, error) {
	if idx, ok := d.cache.Get(key); ok {
		return idx, nil
	}
	if err, ok := d.failures.Get(key); ok {
		return nil, err
	}
	v, err, _ := d.group.Do(key, func() (interface{}, error) {
		idx, err := load(ctx)
		if err != nil {
			// A cancelled caller says nothing about the server
			if ctx.Err() == nil {
				d.failures.Add(key, err)
			}
			return nil, err
		}
		d.cache.Add(key, idx)
		return idx, nil
	})
	if err != nil {
		d.logger.Debug(ctx, "Directory load failed", log.Fields{"key": key, "error": err})
		return nil, err
	}
	return v.(map[int64]string), nil
}

func loadIndex[T any](ctx context.Context, client Client, path, entity string, name func(T) (int64, string)) (map[int64]string, error) {
	var rows []T
	if err := client.GetMappedList(ctx, path, entity, &rows); err != nil {
		return nil, err
	}
	idx := make(map[int64]string, len(rows))
	for _, row := range rows {
		id, n := name(row)
		idx[id] = n
	}
	return idx, nil
}

// Products returns the product id->name index
func (d *Directory) Products(ctx context.Context) (map[int64]string, error) {
	return d.index(ctx, "product", func(ctx context.Context) (map[int64]string, error) {
		return loadIndex(ctx, d.client, "/products", "product", func(p model.Product) (int64, string) { return p.ID, p.Name })
	})
}

// Partners returns the id->name index of one partner tier
func (d *Directory) Partners(ctx context.Context, tier model.PartnerTier) (map[int64]string, error) {
	path, ok := d.partnerPaths[tier]
	if !ok {
		return nil, fmt.Errorf("unknown partner tier %q", tier)
	}
	return d.index(ctx, partnerKey(tier), func(ctx context.Context) (map[int64]string, error) {
		return loadIndex(ctx, d.client, path, "partner", func(p model.Partner) (int64, string) { return p.ID, p.Name })
	})
}

// Consumers returns the consumer id->name index
func (d *Directory) Consumers(ctx context.Context) (map[int64]string, error) {
	return d.index(ctx, "consumer", func(ctx context.Context) (map[int64]string, error) {
		return loadIndex(ctx, d.client, "/tertiary-sales/consumers", "", func(c model.Consumer) (int64, string) { return c.ID, c.Name })
	})
}

// Roles returns the role id->name index
func (d *Directory) Roles(ctx context.Context) (map[int64]string, error) {
	return d.index(ctx, "role", func(ctx context.Context) (map[int64]string, error) {
		return loadIndex(ctx, d.client, "/users/roles", "", func(r model.Role) (int64, string) { return r.ID, r.Name })
	})
}

func lookup(idx map[int64]string, id int64, fallback string) string {
	if n, ok := idx[id]; ok && n != "" {
		return n
	}
	return fmt.Sprintf("%s %d", fallback, id)
}

// ProductName resolves a product id, falling back to "Product <id>"
func (d *Directory) ProductName(ctx context.Context, id int64) string {
	idx, _ := d.Products(ctx)
	return lookup(idx, id, "Product")
}

// PartnerName resolves a partner id within tier, falling back to "Partner <id>"
func (d *Directory) PartnerName(ctx context.Context, tier model.PartnerTier, id int64) string {
	idx, _ := d.Partners(ctx, tier)
	return lookup(idx, id, "Partner")
}

// ConsumerName resolves a consumer id, falling back to "Consumer <id>"
func (d *Directory) ConsumerName(ctx context.Context, id int64) string {
	idx, _ := d.Consumers(ctx)
	return lookup(idx, id, "Consumer")
}

// RoleName resolves a role id, falling back to "Role <id>"
func (d *Directory) RoleName(ctx context.Context, id int64) string {
	idx, _ := d.Roles(ctx)
	return lookup(idx, id, "Role")
}

// Invalidate drops every cached index
func (d *Directory) Invalidate() {
	d.cache.Purge()
	d.failures.Purge()
}
