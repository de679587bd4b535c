package crosswalk

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/caresync/crosswalk/internal/extract"
	"github.com/caresync/crosswalk/pkg/assoc"
	"github.com/caresync/crosswalk/pkg/differ"
	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/logging"
	"github.com/caresync/crosswalk/pkg/resolve"
)

// Run executes one reconciliation over the given inputs.
func (c *crosswalk) Run(ctx context.Context, inputs Inputs) (*Result, error) {
	if err := inputs.validate(); err != nil {
		return nil, err
	}

	result := newResult(uuid.NewString())
	ctx = logging.WithLogger(ctx, c.config.logger)
	ctx = logging.WithRunID(ctx, result.RunID)
	logger := logging.Ctx(ctx)
	logger.Info().Msg("starting reconciliation run")

	x := extract.New(c.config.profiles)
	reg, err := x.Registry(inputs.Registry)
	if err != nil {
		return nil, err
	}
	contacts, err := x.Contacts(inputs.Executives)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("facilities", reg.Facilities.Len()).
		Int("organizations", reg.Organizations.Len()).
		Int("contacts", contacts.Table.Len()).
		Msg("extracted source batches")

	batches := map[entities.Type]*entities.Table{
		entities.TypeFacility:     reg.Facilities,
		entities.TypeOrganization: reg.Organizations,
		entities.TypeContact:      contacts.Table,
	}

	snapshots := make(map[entities.Type]*entities.Snapshot)
	for typ, r := range inputs.Destinations {
		if r == nil {
			continue
		}
		snap, err := x.Destination(r, typ, typ.String()+"-export")
		if err != nil {
			return nil, err
		}
		snapshots[typ] = snap
	}

	if err := c.reconcileEntities(ctx, result, batches, snapshots); err != nil {
		return nil, err
	}
	if err := c.reconcileAssociations(ctx, result, reg, contacts, snapshots); err != nil {
		return nil, err
	}

	result.CompletedAt = time.Now()
	logger.Info().
		Dur("elapsed", result.CompletedAt.Sub(result.StartedAt)).
		Msg("reconciliation run complete")
	return result, nil
}

// reconcileEntities resolves and diffs each entity batch against its
// destination snapshot. A type without a snapshot is planned create-only.
func (c *crosswalk) reconcileEntities(
	ctx context.Context,
	result *Result,
	batches map[entities.Type]*entities.Table,
	snapshots map[entities.Type]*entities.Snapshot,
) error {
	d := differ.New(differ.WithIgnoredFields(c.config.ignoreFields...))

	for _, typ := range entities.AllTypes() {
		if err := ctx.Err(); err != nil {
			return err
		}
		tbl := batches[typ]
		prof, err := c.config.profiles.Profile(typ)
		if err != nil {
			return err
		}
		logger := logging.Ctx(logging.WithEntityType(ctx, typ.String()))

		snap := snapshots[typ]
		var results []resolve.MatchResult
		if snap != nil {
			resolver := prof.Resolver()
			idx := resolver.Index(snap)
			results = resolver.ResolveAll(tbl, idx)
			result.Ambiguities[typ] = idx.Ambiguities()
			if n := len(idx.Ambiguities()); n > 0 {
				logger.Warn().Int("ambiguities", n).Msg("duplicate natural keys in destination snapshot")
			}
		} else {
			// No destination data: nothing can match, everything is new.
			snap = entities.NewSnapshot(typ)
			results = make([]resolve.MatchResult, tbl.Len())
			for i, e := range tbl.Entities() {
				results[i] = resolve.MatchResult{Entity: e}
			}
		}

		cs, err := d.Entities(results, snap, prof.Fields)
		if err != nil {
			return err
		}
		result.Changesets[typ] = cs
		result.Duplicates[typ] = tbl.Duplicates()

		ids := make(map[string]string)
		for _, res := range results {
			if !res.Matched() {
				continue
			}
			if registryID := res.Entity.Key(entities.KeyRegistryID); registryID != "" {
				ids[registryID] = res.RecordID
			}
		}
		result.recordIDs[typ] = ids

		logger.Info().
			Int("new", cs.Summary.New).
			Int("updated", cs.Summary.Updated).
			Int("unchanged", cs.Summary.Unchanged).
			Int("duplicates", tbl.Duplicates()).
			Msg("reconciled entity batch")
	}
	return nil
}

// reconcileAssociations diffs desired edges against the destination's
// packed association columns. Desired edges are derived in registry-ID
// space and mapped to record IDs through this run's matches; an edge
// whose endpoint has no destination record yet is skipped and counted.
func (c *crosswalk) reconcileAssociations(
	ctx context.Context,
	result *Result,
	reg *extract.Registry,
	contacts *extract.Contacts,
	snapshots map[entities.Type]*entities.Snapshot,
) error {
	desired := extract.Desired(reg, contacts)

	for _, spec := range c.config.profiles.Associations() {
		if err := ctx.Err(); err != nil {
			return err
		}
		intents := desired[spec.Type]
		if intents == nil {
			continue
		}
		logger := logging.Ctx(logging.WithEdgeType(ctx, spec.Type.String()))

		fromIDs := result.recordIDs[spec.FromType]
		toIDs := result.recordIDs[spec.ToType]
		mapped := assoc.NewSet()
		skipped := 0
		for _, e := range intents.Edges() {
			fromID, okFrom := fromIDs[e.FromID]
			toID, okTo := toIDs[e.ToID]
			if !okFrom || !okTo {
				skipped++
				continue
			}
			mapped.Add(assoc.Edge{
				Type:     e.Type,
				FromType: e.FromType,
				FromID:   fromID,
				ToType:   e.ToType,
				ToID:     toID,
			})
		}
		result.SkippedEdges[spec.Type] = skipped

		current, observed := extract.Current(snapshots[spec.PackedOn], spec)
		var diff *assoc.Diff
		switch {
		case !observed:
			diff = assoc.ComputeAddOnly(spec.Type, mapped)
		case c.config.addOnly:
			// Observed current edges still dedupe the additions; only
			// removals are suppressed.
			diff = assoc.Compute(spec.Type, current, mapped)
			diff.ToRemove = nil
			diff.AddOnly = true
		default:
			diff = assoc.Compute(spec.Type, current, mapped)
		}
		result.Diffs[spec.Type] = diff

		logger.Info().
			Int("to_add", len(diff.ToAdd)).
			Int("to_remove", len(diff.ToRemove)).
			Int("skipped", skipped).
			Bool("add_only", diff.AddOnly).
			Msg("diffed associations")
	}
	return nil
}
