package receipt

import (
	"PantryPal/domain"
	"PantryPal/internal/utils/gemini"
	"PantryPal/internal/utils/storage"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

type (
	ReceiptService interface {
		ScanReceipt(ctx context.Context, req domain.ScanReceiptRequest) (domain.ScanReceiptResponse, error)
	}

	receiptService struct {
		llm gemini.Client
		now func() time.Time
	}
)

func NewReceiptService(llm gemini.Client) ReceiptService {
	return &receiptService{
		llm: llm,
		now: time.Now,
	}
}

// ScanReceipt reads candidate items off a receipt photo. Nothing is stored here.
func (s *receiptService) ScanReceipt(ctx context.Context, req domain.ScanReceiptRequest) (domain.ScanReceiptResponse, error) {
	data, mime, err := storage.ReadImage(req.ReceiptImage, storage.MaxImageSize, storage.AllowImage...)
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}

	prompt := fmt.Sprintf(
		"Read this grocery receipt and list the food items bought. Today is %s. "+
			"Respond only with a JSON array of objects with the fields "+
			"name (short generic product name), quantity (number, default 1) and "+
			"expirationDate (YYYY-MM-DD, your best estimate of when the item typically expires, "+
			"or null for items that do not spoil). Skip taxes, discounts, bags and non-food lines.",
		s.now().Format(domain.DateLayout),
	)

	text, err := s.llm.GenerateContent(ctx, prompt, &gemini.InlineImage{MimeType: mime.String(), Data: data})
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}

	items, err := ParseScannedItems(text)
	if err != nil {
		return domain.ScanReceiptResponse{}, err
	}
	return domain.ScanReceiptResponse{Items: items}, nil
}

// ParseScannedItems validates model output. Entries without a name are dropped,
// bad quantities become 1 and unparseable dates are discarded.
func ParseScannedItems(text string) ([]domain.ScannedItem, error) {
	raw, err := gemini.ExtractJSONArray(text)
	if err != nil {
		return nil, domain.Upstream("receipt scan", fmt.Errorf("%w: %v", domain.ErrReceiptProcessingFailed, err))
	}

	items := make([]domain.ScannedItem, 0)
	gjson.Parse(raw).ForEach(func(_, entry gjson.Result) bool {
		name := strings.TrimSpace(entry.Get("name").String())
		if !entry.IsObject() || name == "" {
			return true
		}

		quantity := entry.Get("quantity").Float()
		if quantity <= 0 {
			quantity = 1
		}

		expiration := ""
		if d, err := domain.ParseDate(entry.Get("expirationDate").String()); err == nil && d != nil {
			expiration = d.Format(domain.DateLayout)
		}

		items = append(items, domain.ScannedItem{
			Name:           name,
			Quantity:       quantity,
			ExpirationDate: expiration,
		})
		return true
	})
	return items, nil
}
