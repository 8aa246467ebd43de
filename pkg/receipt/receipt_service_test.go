package receipt

import (
	"PantryPal/domain"
	"PantryPal/internal/utils/gemini"
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a 1x1 PNG
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("receipt_image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["receipt_image"][0]
}

type stubLLM struct {
	text  string
	image *gemini.InlineImage
}

func (s *stubLLM) GenerateContent(ctx context.Context, prompt string, image *gemini.InlineImage) (string, error) {
	s.image = image
	return s.text, nil
}

func TestScanReceipt(t *testing.T) {
	llm := &stubLLM{text: `[{"name":"Milk","quantity":2,"expirationDate":"2026-01-20"},{"name":"Rice","quantity":0,"expirationDate":null},{"name":"","quantity":1}]`}
	svc := NewReceiptService(llm).(*receiptService)
	svc.now = func() time.Time { return time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC) }

	res, err := svc.ScanReceipt(context.Background(), domain.ScanReceiptRequest{ReceiptImage: fileHeader(t, "r.png", pngBytes)})
	require.NoError(t, err)

	require.NotNil(t, llm.image)
	assert.Equal(t, "image/png", llm.image.MimeType)
	assert.Equal(t, []domain.ScannedItem{
		{Name: "Milk", Quantity: 2, ExpirationDate: "2026-01-20"},
		{Name: "Rice", Quantity: 1},
	}, res.Items)
}

func TestScanReceiptRejectsNonImages(t *testing.T) {
	svc := NewReceiptService(&stubLLM{})
	_, err := svc.ScanReceipt(context.Background(), domain.ScanReceiptRequest{ReceiptImage: fileHeader(t, "r.png", []byte("just some text"))})
	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)
}

func TestParseScannedItemsRejectsProse(t *testing.T) {
	_, err := ParseScannedItems("The receipt is unreadable.")
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorIs(t, err, domain.ErrReceiptProcessingFailed)
}
