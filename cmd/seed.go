package main

import (
	"context"
	"fmt"

	"github.com/luca-patrignani/supply-chain/config"
	"github.com/luca-patrignani/supply-chain/domain/supplychain"
)

// seed registers the configured products and replays their transitions.
func seed(ctx context.Context, registry *supplychain.Registry, products []config.SeedProduct) error {
	for _, sp := range products {
		p, err := registry.CreateProduct(ctx, supplychain.CreateRequest{
			Name:         sp.Name,
			Manufacturer: sp.Manufacturer,
			Type:         sp.Type,
		})
		if err != nil {
			return fmt.Errorf("could not create seed product %q: %w", sp.Name, err)
		}
		for _, tr := range sp.Transitions {
			_, err := registry.ProcessProduct(ctx, supplychain.ProcessRequest{
				ProductID:  p.ID,
				Stage:      tr.Stage,
				Entity:     tr.Entity,
				Successful: tr.Successful,
			})
			if err != nil {
				return fmt.Errorf("could not process seed product %q to %s: %w", sp.Name, tr.Stage, err)
			}
		}
	}
	return nil
}
