package signer

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
)

// Resolve fills builder from selector and builds the registry. A selector
// naming a route of router constructs that built-in backend from cfg; any
// other selector is treated as the filesystem path of a signer plugin.
func Resolve(builder *Builder, router *Router, selector string, cfg Config, logger log.Logger) (*Registry, error) {
	if selector == "" {
		return nil, errorsmod.Wrap(ErrInvalidConfig, "signer selector cannot be blank")
	}

	if factory, ok := router.GetRoute(selector); ok {
		signer, err := factory(cfg, logger)
		if err != nil {
			return nil, errorsmod.Wrapf(err, "%s signer", selector)
		}
		builder.RegisterSigner(signer)
		return builder.Build()
	}

	if err := builder.LoadFromPath(selector); err != nil {
		return nil, err
	}
	return builder.Build()
}
