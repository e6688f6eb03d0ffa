package profilefield

import "github.com/goliatone/go-repository-cache/cache"

// RepositoryOption configures profile field repository construction.
type RepositoryOption func(*RepositoryOptions)

// RepositoryOptions captures optional behavior for field persistence.
type RepositoryOptions struct {
	CacheEnabled bool
	CacheConfig  *cache.Config
}

// WithCache toggles the cache decorator on field definition lookups.
func WithCache(enabled bool) RepositoryOption {
	return func(opts *RepositoryOptions) {
		if opts == nil {
			return
		}
		opts.CacheEnabled = enabled
	}
}

// WithCacheConfig supplies the cache configuration used when caching is enabled.
func WithCacheConfig(cfg cache.Config) RepositoryOption {
	return func(opts *RepositoryOptions) {
		if opts == nil {
			return
		}
		opts.CacheConfig = &cfg
	}
}

func applyRepositoryOptions(options []RepositoryOption) RepositoryOptions {
	var opts RepositoryOptions
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}
	return opts
}
