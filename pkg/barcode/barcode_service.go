package barcode

import (
	"PantryPal/domain"
	"PantryPal/internal/metrics"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/tidwall/gjson"
)

const (
	DefaultAPIURL = "https://world.openfoodfacts.org"
	cacheTTL      = 7 * 24 * time.Hour
	missTTL       = time.Hour
	missMarker    = "{}"
)

var codePattern = regexp.MustCompile(`^[0-9]{8,14}$`)

type (
	BarcodeService interface {
		Lookup(ctx context.Context, code string) (domain.Product, error)
	}

	barcodeService struct {
		baseURL    string
		cache      Cache
		httpClient *http.Client
	}
)

// NewBarcodeService looks products up on an Open Food Facts compatible API.
// cache may be nil.
func NewBarcodeService(baseURL string, cache Cache) BarcodeService {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &barcodeService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      cache,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *barcodeService) Lookup(ctx context.Context, code string) (domain.Product, error) {
	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) {
		return domain.Product{}, domain.ErrInvalidBarcode
	}

	if product, ok := s.fromCache(ctx, code); ok {
		if product.Name == "" {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return product, nil
	}

	product, err := s.fetch(ctx, code)
	switch {
	case err == nil:
		encoded, _ := json.Marshal(product)
		s.toCache(ctx, code, string(encoded), cacheTTL)
	case errors.Is(err, domain.ErrProductNotFound):
		s.toCache(ctx, code, missMarker, missTTL)
	}
	return product, err
}

func (s *barcodeService) fromCache(ctx context.Context, code string) (domain.Product, bool) {
	if s.cache == nil {
		return domain.Product{}, false
	}
	v, ok, err := s.cache.Get(ctx, code)
	if err != nil {
		log.Warnw("barcode cache read failed", "code", code, "error", err)
		return domain.Product{}, false
	}
	if !ok {
		return domain.Product{}, false
	}

	var product domain.Product
	if err := json.Unmarshal([]byte(v), &product); err != nil {
		return domain.Product{}, false
	}
	return product, true
}

func (s *barcodeService) toCache(ctx context.Context, code, value string, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, code, value, ttl); err != nil {
		log.Warnw("barcode cache write failed", "code", code, "error", err)
	}
}

func (s *barcodeService) fetch(ctx context.Context, code string) (product domain.Product, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("barcode", start, err) }()

	url := fmt.Sprintf("%s/api/v2/product/%s.json", s.baseURL, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Product{}, err
	}
	req.Header.Set("User-Agent", "PantryPal/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.Product{}, domain.Upstream("barcode lookup", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return domain.Product{}, domain.Upstream("barcode lookup", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK || !gjson.ValidBytes(body) {
		return domain.Product{}, domain.Upstream("barcode lookup", fmt.Errorf("status %d", resp.StatusCode))
	}

	res := gjson.ParseBytes(body)
	if res.Get("status").Int() != 1 {
		return domain.Product{}, domain.ErrProductNotFound
	}

	productName := strings.TrimSpace(res.Get("product.product_name").String())
	brand := strings.TrimSpace(strings.Split(res.Get("product.brands").String(), ",")[0])

	name := strings.TrimSpace(brand + " " + productName)
	if productName != "" && brand != "" && strings.HasPrefix(strings.ToLower(productName), strings.ToLower(brand)) {
		name = productName
	}
	if name == "" {
		return domain.Product{}, domain.ErrProductNotFound
	}

	return domain.Product{
		Barcode:     code,
		Brand:       brand,
		ProductName: productName,
		Name:        name,
		Image:       res.Get("product.image_front_url").String(),
	}, nil
}
