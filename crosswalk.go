// Package crosswalk reconciles registry extracts against CRM exports. A
// run reads the source-of-truth registry data, resolves each entity to its
// destination record through ordered natural-key strategies, detects field
// drift under symmetric normalization, diffs relationship edges, and emits
// an import-ready plan. Running the plan's output back through the engine
// yields an empty plan.
package crosswalk

import (
	"context"
	"io"

	"github.com/caresync/crosswalk/pkg/entities"
	"github.com/caresync/crosswalk/pkg/errors"
	"github.com/caresync/crosswalk/pkg/profile"
)

// Crosswalk runs snapshot reconciliations.
type Crosswalk interface {
	// Run executes one reconciliation over the given inputs.
	Run(ctx context.Context, inputs Inputs) (*Result, error)

	// Profiles returns the profile set the engine reconciles with.
	Profiles() *profile.Set
}

// Inputs are the raw data sources of one run. Registry and Executives are
// required; destination readers are optional per type, and a type without
// one is planned create-only with add-only association diffs.
type Inputs struct {
	// Registry is the facility registry extract (MasterORG-style CSV).
	Registry io.Reader

	// Executives is the long-term-care executives extract CSV.
	Executives io.Reader

	// Destinations holds the CRM export per entity type.
	Destinations map[entities.Type]io.Reader
}

// crosswalk is the internal implementation of the Crosswalk interface.
type crosswalk struct {
	config *config
}

// New creates a Crosswalk instance with the given options.
func New(opts ...Option) (Crosswalk, error) {
	c := &crosswalk{config: defaultConfig()}
	for _, opt := range opts {
		if err := opt(c.config); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Profiles returns the profile set the engine reconciles with.
func (c *crosswalk) Profiles() *profile.Set {
	return c.config.profiles
}

// validate checks that the inputs can start a run.
func (i Inputs) validate() error {
	if i.Registry == nil {
		return errors.NewValidationError("registry", nil, "registry input is required")
	}
	if i.Executives == nil {
		return errors.NewValidationError("executives", nil, "executives input is required")
	}
	return nil
}
