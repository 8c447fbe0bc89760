package inventory

import (
	"strings"
	"time"

	"github.com/erp/stockledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpiryDateLayout is the accepted textual form of an expiry date
const ExpiryDateLayout = "2006-01-02"

// LotOutcome reports what a lot decrement actually did
type LotOutcome string

const (
	// LotDecremented means a matching lot was found and still holds stock
	LotDecremented LotOutcome = "DECREMENTED"
	// LotDepleted means a matching lot was found, reached zero or below and was removed
	LotDepleted LotOutcome = "DEPLETED"
	// LotNotFound means no lot matched the location, product and expiry date
	LotNotFound LotOutcome = "NOT_FOUND"
	// LotSkipped means no expiry date was supplied so no lot was touched
	LotSkipped LotOutcome = "SKIPPED"
)

// String returns the string representation of LotOutcome
func (o LotOutcome) String() string {
	return string(o)
}

// Found returns true if a matching lot existed
func (o LotOutcome) Found() bool {
	return o == LotDecremented || o == LotDepleted
}

// ExpiryLot is the quantity of a product at a location sharing one expiry date.
// A lot is removed once its quantity reaches zero.
type ExpiryLot struct {
	shared.BaseEntity
	LocationID  uuid.UUID
	ProductID   uuid.UUID
	ExpiryDate  time.Time
	BatchNumber string
	Quantity    decimal.Decimal
}

// NewExpiryLot creates a lot; the expiry date is normalized to a calendar date
func NewExpiryLot(locationID, productID uuid.UUID, expiry time.Time, batch string, quantity decimal.Decimal) *ExpiryLot {
	return &ExpiryLot{
		BaseEntity:  shared.NewBaseEntity(),
		LocationID:  locationID,
		ProductID:   productID,
		ExpiryDate:  NormalizeExpiryDate(expiry),
		BatchNumber: strings.TrimSpace(batch),
		Quantity:    quantity,
	}
}

// IsExpired reports whether the lot is past its expiry date at the given time
func (l *ExpiryLot) IsExpired(at time.Time) bool {
	return NormalizeExpiryDate(at).After(l.ExpiryDate)
}

// NormalizeExpiryDate truncates t to midnight UTC of its calendar date so
// lots compare equal regardless of the time-of-day or zone they came in with.
func NormalizeExpiryDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseExpiryDate parses an optional expiry date string.
// An empty string yields nil.
func ParseExpiryDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(ExpiryDateLayout, s)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_EXPIRY_DATE", "Expiry date must be formatted as YYYY-MM-DD")
	}
	t = NormalizeExpiryDate(t)
	return &t, nil
}
