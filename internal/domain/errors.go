package domain

import (
	"errors"
	"fmt"
)

// Error kinds. The manager decides what to do with a failed operation by
// matching on these with errors.Is, never by inspecting error strings.
var (
	// ErrBackendUnavailable — the warehouse session could not be established
	// or a call failed in transit. Recovered by a permanent demotion to the
	// local store, never surfaced to the caller as a hard failure.
	ErrBackendUnavailable = errors.New("warehouse backend unavailable")
	// ErrSchema — the warehouse rejected a table definition. Reported upward,
	// no retry and no mode change.
	ErrSchema = errors.New("table schema rejected")
	// ErrPersistence — the local store failed to write. Fatal for the
	// operation, there is no further fallback.
	ErrPersistence = errors.New("local persistence failure")
	// ErrValidation — the payload was rejected before reaching either backend.
	ErrValidation = errors.New("validation failed")
	// ErrUnknownTable is returned for table names outside the fixed registry.
	ErrUnknownTable = errors.New("unknown table")
)

// Validation sentinels. Each wraps ErrValidation so callers can match either
// the class or the specific reason.
var (
	ErrOrderIDRequired       = fmt.Errorf("%w: order_id is required", ErrValidation)
	ErrCustomerIDRequired    = fmt.Errorf("%w: customer_id is required", ErrValidation)
	ErrInvoiceNumberRequired = fmt.Errorf("%w: invoice_number is required", ErrValidation)
	ErrStatusInvalid         = fmt.Errorf("%w: unknown order status", ErrValidation)
	ErrAmountNegative        = fmt.Errorf("%w: amount must be non-negative", ErrValidation)
	ErrTaxNegative           = fmt.Errorf("%w: tax_amount must be non-negative", ErrValidation)
	ErrItemQtyInvalid        = fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
	ErrItemPriceInvalid      = fmt.Errorf("%w: item unit_price must be non-negative", ErrValidation)
	ErrItemNameRequired      = fmt.Errorf("%w: item name is required", ErrValidation)
)
