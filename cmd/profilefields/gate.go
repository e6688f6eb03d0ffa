package main

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-profilefields/cmd/profilefields/config"
)

// configGate answers feature checks from the loaded configuration.
type configGate struct {
	cfg config.FeaturesConfig
}

func (g configGate) Enabled(context.Context, string, ...featuregate.ResolveOption) (bool, error) {
	return g.cfg.ProfileFields, nil
}
