// Package variants registers the built-in game variants.
package variants

import (
	"github.com/louisbranch/cardroom/internal/game/rules"
	"github.com/louisbranch/cardroom/internal/game/variants/fivecarddraw"
	"github.com/louisbranch/cardroom/internal/game/variants/guts"
	"github.com/louisbranch/cardroom/internal/game/variants/kingsandlows"
	"github.com/louisbranch/cardroom/internal/game/variants/sevencardstud"
)

// RegisterAll registers every built-in variant with the catalog.
func RegisterAll(catalog *rules.Catalog) error {
	registrations := []func(*rules.Catalog) error{
		fivecarddraw.Register,
		sevencardstud.Register,
		guts.Register,
		kingsandlows.Register,
	}
	for _, register := range registrations {
		if err := register(catalog); err != nil {
			return err
		}
	}
	return nil
}

// NewCatalog builds a frozen catalog with every built-in variant.
func NewCatalog() (*rules.Catalog, error) {
	catalog := rules.NewCatalog()
	if err := RegisterAll(catalog); err != nil {
		return nil, err
	}
	catalog.Freeze()
	return catalog, nil
}
