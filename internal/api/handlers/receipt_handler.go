package handlers

import (
	"PantryPal/domain"
	"PantryPal/internal/api/presenters"
	"PantryPal/pkg/receipt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ReceiptHandler interface {
		ScanReceipt(c *fiber.Ctx) error
	}

	receiptHandler struct {
		receiptService receipt.ReceiptService
		validator      *validator.Validate
	}
)

func NewReceiptHandler(receiptService receipt.ReceiptService, validator *validator.Validate) ReceiptHandler {
	return &receiptHandler{
		receiptService: receiptService,
		validator:      validator,
	}
}

func (h *receiptHandler) ScanReceipt(c *fiber.Ctx) error {
	req := new(domain.ScanReceiptRequest)

	file, err := c.FormFile("receipt_image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.ReceiptImage = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedScanReceipt, err)
	}

	res, err := h.receiptService.ScanReceipt(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedScanReceipt, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessScanReceipt)
}
