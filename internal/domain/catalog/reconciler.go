package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reconciler merges remote catalog snapshots into a seller's local catalog.
// A pass is a pure upsert: remote items missing from the snapshot are left
// untouched, so a provider page that temporarily drops an item never
// destroys local data. Only disconnect demotes external items.
type Reconciler struct {
	items ItemRepository
}

// NewReconciler creates a new Reconciler
func NewReconciler(items ItemRepository) *Reconciler {
	return &Reconciler{items: items}
}

// Begin starts a reconciliation pass for one seller. It loads the seller's
// external items keyed by external reference so page application is a map
// lookup per remote item.
func (r *Reconciler) Begin(ctx context.Context, sellerID uuid.UUID) (*Pass, error) {
	existing, err := r.items.FindExternalForSeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	byRef := make(map[string]*Item, len(existing))
	for i := range existing {
		item := &existing[i]
		if item.ExternalRef != nil {
			byRef[*item.ExternalRef] = item
		}
	}

	return &Pass{
		items:    r.items,
		sellerID: sellerID,
		byRef:    byRef,
	}, nil
}

// Pass accumulates the result of applying remote snapshot pages in order.
// It is not safe for concurrent use; the caller serializes passes per
// (seller, provider) via the sync guard.
type Pass struct {
	items    ItemRepository
	sellerID uuid.UUID
	byRef    map[string]*Item
	summary  SyncSummary
}

// Apply upserts one page of remote items. A failing item increments the
// errored count and the pass continues; only context cancellation stops the
// page, leaving everything already upserted in place.
func (p *Pass) Apply(ctx context.Context, page []RemoteItem) error {
	for _, remote := range page {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.applyOne(ctx, remote)
	}
	return nil
}

// applyOne upserts a single remote item into the local catalog
func (p *Pass) applyOne(ctx context.Context, remote RemoteItem) {
	if remote.ExternalRef == "" {
		p.summary.Errored++
		return
	}

	if local, ok := p.byRef[remote.ExternalRef]; ok {
		if err := local.ApplyRemote(remote); err != nil {
			p.summary.Errored++
			return
		}
		if err := p.items.Save(ctx, local); err != nil {
			p.summary.Errored++
			return
		}
		p.summary.Updated++
		return
	}

	item, err := NewExternalItem(p.sellerID, remote)
	if err != nil {
		p.summary.Errored++
		return
	}
	if err := p.items.Save(ctx, item); err != nil {
		p.summary.Errored++
		return
	}
	// A duplicate reference later in the same snapshot counts as an update.
	p.byRef[remote.ExternalRef] = item
	p.summary.Imported++
}

// Finish seals the pass. totalRemote is the snapshot size reported by the
// provider; on a partial fetch it may exceed the processed count, leaving
// the difference visible as unaccounted rather than errored.
func (p *Pass) Finish(totalRemote int) SyncSummary {
	p.summary.TotalRemote = totalRemote
	p.summary.SyncedAt = time.Now()
	return p.summary
}
