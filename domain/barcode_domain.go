package domain

import (
	"fmt"
)

var (
	MessageSuccessLookupBarcode = "product found"
	MessageFailedLookupBarcode  = "failed to look up barcode"

	ErrInvalidBarcode  = fmt.Errorf("%w: barcode must be 8 to 14 digits", ErrValidation)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
)

type (
	Product struct {
		Barcode     string `json:"barcode"`
		Brand       string `json:"brand,omitempty"`
		ProductName string `json:"product_name"`
		Name        string `json:"name"`
		Image       string `json:"image,omitempty"`
	}
)
