package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart             = errors.New("cart is empty, nothing to checkout")
	ErrProviderNotConfigured = errors.New("payment provider is not configured")
)

// UnknownProductError aborts the whole checkout; no partial charge is ever
// submitted. The message names the offending SKU.
type UnknownProductError struct {
	SKU string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product: %s", e.SKU)
}
