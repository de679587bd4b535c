package crosswalk

import (
	"github.com/rs/zerolog"

	"github.com/caresync/crosswalk/pkg/logging"
	"github.com/caresync/crosswalk/pkg/profile"
)

// config holds the resolved engine configuration.
type config struct {
	profiles     *profile.Set
	logger       *zerolog.Logger
	addOnly      bool
	ignoreFields []string
}

func defaultConfig() *config {
	return &config{
		profiles: profile.Defaults(),
		logger:   logging.Default(),
	}
}

// Option is a function that configures a Crosswalk instance.
type Option func(*config) error

// WithProfiles configures the entity and association profiles to
// reconcile with.
func WithProfiles(set *profile.Set) Option {
	return func(c *config) error {
		c.profiles = set
		return nil
	}
}

// WithProfilesFile loads profile overrides from a YAML file.
func WithProfilesFile(path string) Option {
	return func(c *config) error {
		set, err := profile.Load(path)
		if err != nil {
			return err
		}
		c.profiles = set
		return nil
	}
}

// WithLogger configures the logger runs emit to.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithAddOnly forces add-only association diffs even when current edges
// are observable. No removal is ever planned in this mode.
func WithAddOnly(enabled bool) Option {
	return func(c *config) error {
		c.addOnly = enabled
		return nil
	}
}

// WithIgnoredFields excludes fields from change detection across all
// entity types.
func WithIgnoredFields(fields ...string) Option {
	return func(c *config) error {
		c.ignoreFields = append(c.ignoreFields, fields...)
		return nil
	}
}
