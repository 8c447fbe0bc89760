package persistence

import (
	"strings"

	"github.com/erp/stockledger/internal/domain/shared"
	"gorm.io/gorm"
)

// Whitelisted ORDER BY columns per table. Anything else falls back to the
// repository's default column, so filter input never reaches SQL verbatim.
var (
	StockLevelSortFields = map[string]bool{
		"created_at": true,
		"updated_at": true,
		"product_id": true,
		"quantity":   true,
	}

	LedgerTransactionSortFields = map[string]bool{
		"created_at":       true,
		"transaction_date": true,
		"quantity":         true,
		"reference":        true,
	}
)

// ValidateSortOrder returns ASC only when asked for it, DESC otherwise
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if allowed lists it, defaultField otherwise
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	if field := strings.TrimSpace(sortField); allowed[field] {
		return field
	}
	return defaultField
}

// applyFilter orders by a whitelisted column, breaking ties on id so pages
// stay stable, then paginates
func applyFilter(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	dir := ValidateSortOrder(filter.OrderDir)
	return query.
		Order(ValidateSortField(filter.OrderBy, allowed, defaultField) + " " + dir).
		Order("id " + dir).
		Offset(filter.Offset()).
		Limit(filter.Limit())
}
