package inventory

import "github.com/erp/stockledger/internal/domain/shared"

// AdjustmentReferencePrefix prefixes the count document ID on adjustment entries
const AdjustmentReferencePrefix = "PI-"

// Inventory errors
var (
	ErrProductNotFound       = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrDocumentNotFound      = shared.NewDomainError("DOCUMENT_NOT_FOUND", "Document not found")
	ErrDocumentAlreadyClosed = shared.NewDomainError("DOCUMENT_ALREADY_CLOSED", "Physical inventory document is already closed")
	ErrStoreLocked           = shared.NewDomainError("STORE_LOCKED", "Another reconciliation is running for this store")
)
