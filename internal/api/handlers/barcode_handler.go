package handlers

import (
	"PantryPal/domain"
	"PantryPal/internal/api/presenters"
	"PantryPal/pkg/barcode"

	"github.com/gofiber/fiber/v2"
)

type (
	BarcodeHandler interface {
		Lookup(c *fiber.Ctx) error
	}

	barcodeHandler struct {
		barcodeService barcode.BarcodeService
	}
)

func NewBarcodeHandler(barcodeService barcode.BarcodeService) BarcodeHandler {
	return &barcodeHandler{barcodeService: barcodeService}
}

func (h *barcodeHandler) Lookup(c *fiber.Ctx) error {
	res, err := h.barcodeService.Lookup(c.Context(), c.Params("code"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedLookupBarcode, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLookupBarcode)
}
