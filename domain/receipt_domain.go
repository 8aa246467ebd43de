package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessScanReceipt = "receipt scanned successfully"
	MessageFailedScanReceipt  = "failed to scan receipt"

	ErrReceiptProcessingFailed = errors.New("receipt processing failed")
	ErrReceiptTooLarge         = errors.New("receipt image exceeds the size limit")
)

type (
	ScanReceiptRequest struct {
		ReceiptImage *multipart.FileHeader `json:"receipt_image" form:"receipt_image" validate:"required"`
	}

	// ScannedItem is a candidate item read from a receipt. Nothing is persisted until
	// the client posts the confirmed list to the bulk item endpoint.
	ScannedItem struct {
		Name           string  `json:"name"`
		Quantity       float64 `json:"quantity"`
		ExpirationDate string  `json:"expiration_date,omitempty"`
	}

	ScanReceiptResponse struct {
		Items []ScannedItem `json:"items"`
	}
)
