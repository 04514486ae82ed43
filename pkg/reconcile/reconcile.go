// Package reconcile decides, per IP, whether the IPAM system needs a new
// address record, a changed one, or nothing, and applies the writes.
//
// Decisions are independent per IP and the iteration order is unspecified.
// The write side effects make an immediately repeated run a no-op: every
// IP reconciled once skips on the next pass.
package reconcile

import (
	"context"

	"github.com/jfenner/leasesync/pkg/hosts"
)

// Action is the per-IP reconciliation decision.
type Action string

// Possible reconciliation actions.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
)

// Record is the view of an existing remote address record used for
// diffing. ID is opaque and passed through unchanged when updating.
type Record struct {
	ID       string
	MAC      string
	Hostname string
}

// Summary counts the decisions made during one run.
type Summary struct {
	Created int
	Updated int
	Skipped int
}

// Total returns the number of addresses a run decided on.
func (s Summary) Total() int {
	return s.Created + s.Updated + s.Skipped
}

// Inventory is the write side of the IPAM system. Create receives the
// full canonical host; Update targets an existing record by its opaque id
// and carries only the fields this tool owns.
type Inventory interface {
	Create(ctx context.Context, h hosts.Host) error
	Update(ctx context.Context, id string, h hosts.Host) error
}

// Decide returns the action for one canonical host given the existing
// record for its IP, if any. Field comparison is exact and case-sensitive.
func Decide(h hosts.Host, rec Record, exists bool) Action {
	if !exists {
		return ActionCreate
	}
	if rec.MAC != h.MAC || rec.Hostname != h.Hostname {
		return ActionUpdate
	}
	return ActionSkip
}

// Reconcile walks the canonical hosts, decides per IP, and applies writes
// through inv. The first write failure aborts the rest of the pass and no
// partial summary is returned; writes already applied stay applied and
// re-running is the recovery mechanism.
func Reconcile(ctx context.Context, canonical map[string]hosts.Host, existing map[string]Record, inv Inventory, opts ...Option) (Summary, error) {
	options := newOptions(opts...)
	logger := options.logger

	var summary Summary
	for ip, h := range canonical {
		rec, ok := existing[ip]
		switch Decide(h, rec, ok) {
		case ActionCreate:
			if !options.dryRun {
				if err := inv.Create(ctx, h); err != nil {
					return Summary{}, err
				}
			}
			logger.Info().
				Str("ip", ip).
				Str("hostname", h.Hostname).
				Bool("dry_run", options.dryRun).
				Msg("Created address")
			summary.Created++
		case ActionUpdate:
			if !options.dryRun {
				if err := inv.Update(ctx, rec.ID, h); err != nil {
					return Summary{}, err
				}
			}
			logger.Info().
				Str("ip", ip).
				Str("id", rec.ID).
				Str("hostname", h.Hostname).
				Bool("dry_run", options.dryRun).
				Msg("Updated address")
			summary.Updated++
		case ActionSkip:
			logger.Debug().Str("ip", ip).Msg("Address unchanged")
			summary.Skipped++
		}
	}

	return summary, nil
}
