// Package sync orchestrates one reconciliation run: fetch both firewall
// tables, merge them into canonical hosts, authenticate against phpIPAM,
// fetch the subnet's existing records, and reconcile the difference.
//
// A run is fully sequential and stateless; any failed call aborts the
// remainder and re-running is the recovery mechanism.
package sync

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jfenner/leasesync/internal/phpipam"
	"github.com/jfenner/leasesync/pkg/hosts"
	"github.com/jfenner/leasesync/pkg/reconcile"
)

// Observer retrieves raw host observations from the firewall.
type Observer interface {
	Leases(ctx context.Context) ([]hosts.Observation, error)
	ARPTable(ctx context.Context) ([]hosts.Observation, error)
}

// AddressStore is the phpIPAM surface a run needs.
type AddressStore interface {
	Authenticate(ctx context.Context) error
	Addresses(ctx context.Context, subnetID string) (map[string]phpipam.Address, error)
	Create(ctx context.Context, subnetID string, h hosts.Host) error
	Update(ctx context.Context, id string, h hosts.Host) error
}

// Runner wires the source observers and the IPAM client into one run.
type Runner struct {
	observer Observer
	store    AddressStore
	subnetID string
	dryRun   bool
	logger   zerolog.Logger
}

// New creates a Runner targeting one subnet.
func New(observer Observer, store AddressStore, subnetID string, dryRun bool, logger zerolog.Logger) *Runner {
	return &Runner{
		observer: observer,
		store:    store,
		subnetID: subnetID,
		dryRun:   dryRun,
		logger:   logger,
	}
}

// inventoryWriter adapts the AddressStore to the reconciler's write port,
// binding the pre-configured subnet for creations.
type inventoryWriter struct {
	store    AddressStore
	subnetID string
}

func (w *inventoryWriter) Create(ctx context.Context, h hosts.Host) error {
	return w.store.Create(ctx, w.subnetID, h)
}

func (w *inventoryWriter) Update(ctx context.Context, id string, h hosts.Host) error {
	return w.store.Update(ctx, id, h)
}

// Run performs one full sync and returns the run summary. On any failure
// the run aborts and no partial summary is returned.
func (r *Runner) Run(ctx context.Context) (reconcile.Summary, error) {
	leases, err := r.observer.Leases(ctx)
	if err != nil {
		return reconcile.Summary{}, err
	}

	arp, err := r.observer.ARPTable(ctx)
	if err != nil {
		return reconcile.Summary{}, err
	}

	canonical := hosts.Merge(leases, arp)
	r.logger.Info().Int("hosts", len(canonical)).Msg("Discovered hosts from OPNsense")

	if err := r.store.Authenticate(ctx); err != nil {
		return reconcile.Summary{}, err
	}

	addresses, err := r.store.Addresses(ctx, r.subnetID)
	if err != nil {
		return reconcile.Summary{}, err
	}

	existing := make(map[string]reconcile.Record, len(addresses))
	for ip, addr := range addresses {
		existing[ip] = reconcile.Record{
			ID:       addr.ID.String(),
			MAC:      addr.MAC,
			Hostname: addr.Hostname,
		}
	}

	summary, err := reconcile.Reconcile(ctx, canonical, existing,
		&inventoryWriter{store: r.store, subnetID: r.subnetID},
		reconcile.WithLogger(r.logger),
		reconcile.WithDryRun(r.dryRun),
	)
	if err != nil {
		return reconcile.Summary{}, err
	}

	r.logger.Info().
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("skipped", summary.Skipped).
		Bool("dry_run", r.dryRun).
		Msg("Sync complete")

	return summary, nil
}
