package inventory

import (
	"strings"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
)

// LocationType discriminates the parties stock can move between
type LocationType string

const (
	// LocationTypeStore is a stock-holding location owned by the business
	LocationTypeStore LocationType = "STORE"
	// LocationTypeCustomer is an external party stock is issued to
	LocationTypeCustomer LocationType = "CUSTOMER"
	// LocationTypeSupplier is an external party stock is received from
	LocationTypeSupplier LocationType = "SUPPLIER"
)

// String returns the string representation of LocationType
func (t LocationType) String() string {
	return string(t)
}

// IsValid returns true if the location type is valid
func (t LocationType) IsValid() bool {
	switch t {
	case LocationTypeStore, LocationTypeCustomer, LocationTypeSupplier:
		return true
	}
	return false
}

// HoldsStock returns true if quantities are tracked for this location type
func (t LocationType) HoldsStock() bool {
	return t == LocationTypeStore
}

// Location is a store, customer or supplier referenced by stock counters
type Location struct {
	shared.BaseEntity
	Type LocationType
	Name string
}

// NewLocation creates a new location
func NewLocation(locType LocationType, name string) (*Location, error) {
	if !locType.IsValid() {
		return nil, shared.NewDomainError("INVALID_LOCATION_TYPE", "Invalid location type")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION_NAME", "Location name cannot be empty")
	}
	return &Location{
		BaseEntity: shared.NewBaseEntity(),
		Type:       locType,
		Name:       name,
	}, nil
}

// Ref returns the counter-party descriptor for this location
func (l *Location) Ref() EntityRef {
	return EntityRef{ID: l.ID, Type: l.Type, Description: l.Name}
}

// EntityRef describes the other side of a stock movement: who stock was
// issued to or received from.
type EntityRef struct {
	ID          uuid.UUID
	Type        LocationType
	Description string
}
