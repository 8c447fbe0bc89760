// Package models contains GORM-specific persistence models that map to ledger tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no GORM tags
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain/FromDomain convert between the two
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: BaseModel shared by entity tables
// - catalog.go: products and locations
// - ledger.go: stock levels, expiry lots, ledger transactions, cost log, balance snapshots
// - documents.go: movement documents and physical inventory documents
package models
