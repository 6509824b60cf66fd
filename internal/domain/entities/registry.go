// Package entities wires every entity descriptor into one registry.
package entities

import (
	"logoobjects/internal/domain/entities/arps"
	"logoobjects/internal/domain/entities/banks"
	"logoobjects/internal/domain/entities/items"
	"logoobjects/internal/domain/entities/salesinvoices"
	"logoobjects/internal/domain/entities/salesmen"
	"logoobjects/internal/domain/entities/salesorders"
	"logoobjects/internal/metadata"
)

// Registry returns a registry holding all known entities.
func Registry() *metadata.Registry {
	reg := metadata.NewRegistry()

	reg.Register(banks.Descriptor())
	reg.Register(salesmen.Descriptor())
	reg.Register(items.Descriptor())
	reg.Register(arps.Descriptor())
	reg.Register(salesorders.Descriptor())
	reg.Register(salesinvoices.Descriptor())

	return reg
}
