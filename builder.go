// File: lixenwraith/conftree/builder.go
package conftree

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ValidatorFunc defines the signature for a function that can validate a Config instance.
// It receives the fully loaded *Config object and should return an error if validation fails.
type ValidatorFunc func(c *Config) error

// Builder provides a fluent interface for building configurations
type Builder struct {
	cache      *Cache
	opts       CacheOptions
	file       string
	id         string
	text       *string
	replace    bool
	discover   string
	discovery  DiscoveryOptions
	section    []string
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		opts:       DefaultCacheOptions(),
		discovery:  DefaultDiscoveryOptions(),
		validators: make([]ValidatorFunc, 0),
	}
}

// WithCache loads through an existing cache. Logger and setter options are then taken from it.
func (b *Builder) WithCache(cache *Cache) *Builder {
	b.cache = cache
	return b
}

// WithLogger sets the logger of the cache created by Build
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// WithStrictSetters makes typed setters of the built config return their errors
func (b *Builder) WithStrictSetters(strict bool) *Builder {
	b.opts.StrictSetters = strict
	return b
}

// WithFile sets the configuration file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithString loads text under id instead of a file
func (b *Builder) WithString(id, text string) *Builder {
	if id == "" {
		b.err = errors.New("in-memory configuration requires an id")
		return b
	}
	b.id = id
	b.text = &text
	return b
}

// WithReplace replaces an already cached document for the in-memory id
func (b *Builder) WithReplace(replace bool) *Builder {
	b.replace = replace
	return b
}

// WithDiscovery looks the file up by name using system configuration discovery
func (b *Builder) WithDiscovery(name string, opts DiscoveryOptions) *Builder {
	b.discover = name
	b.discovery = opts
	return b
}

// WithSection roots the built config at the section found at path
func (b *Builder) WithSection(path ...string) *Builder {
	b.section = path
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Config instance with all specified options
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	cache := b.cache
	if cache == nil {
		cache = NewCache(b.opts)
	}

	var cfg *Config
	var err error
	switch {
	case b.text != nil:
		cfg, err = cache.LoadString(b.id, *b.text, b.replace)
	case b.file != "":
		cfg, err = cache.Load(b.file)
	case b.discover != "":
		cfg, err = cache.LoadSystem(b.discover, b.discovery)
	default:
		return nil, errors.New("no configuration source: use WithFile, WithString or WithDiscovery")
	}
	if err != nil {
		return nil, err
	}

	if len(b.section) > 0 {
		if cfg, err = cfg.GetInstance(b.section...); err != nil {
			return nil, err
		}
	}

	// Run validators
	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return cfg, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return cfg
}

// BuildAndScan builds the config and decodes it into target, validating struct tags
func (b *Builder) BuildAndScan(target any) (*Config, error) {
	cfg, err := b.Build()
	if err != nil {
		return nil, err
	}

	if err := cfg.ScanAndValidate(target); err != nil {
		return nil, fmt.Errorf("failed to scan final config into target: %w", err)
	}

	return cfg, nil
}
