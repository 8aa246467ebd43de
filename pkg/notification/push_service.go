package notification

import (
	"PantryPal/domain"
	"PantryPal/internal/metrics"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultPushURL = "https://exp.host/--/api/v2/push/send"
	pushChunkSize  = 100
)

type (
	PushService interface {
		Send(ctx context.Context, req domain.SendNotificationRequest) (domain.SendNotificationResponse, error)
	}

	pushService struct {
		endpoint   string
		httpClient *http.Client
	}
)

func NewPushService(endpoint string) PushService {
	if endpoint == "" {
		endpoint = DefaultPushURL
	}
	return &pushService{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers one message to every well-formed token. Malformed tokens are
// reported back as skipped rather than failing the whole request.
func (s *pushService) Send(ctx context.Context, req domain.SendNotificationRequest) (domain.SendNotificationResponse, error) {
	res := domain.SendNotificationResponse{Tickets: []domain.PushTicket{}}

	messages := make([]domain.PushMessage, 0, len(req.Tokens))
	for _, token := range req.Tokens {
		token = strings.TrimSpace(token)
		if !domain.IsExpoPushToken(token) {
			res.Skipped = append(res.Skipped, token)
			continue
		}
		messages = append(messages, domain.PushMessage{
			To:    token,
			Sound: "default",
			Title: req.Title,
			Body:  req.Message,
			Data:  req.Data,
		})
	}
	if len(messages) == 0 {
		return res, domain.ErrNoValidPushTokens
	}

	for start := 0; start < len(messages); start += pushChunkSize {
		end := min(start+pushChunkSize, len(messages))
		tickets, err := s.post(ctx, messages[start:end])
		if err != nil {
			return res, err
		}
		res.Tickets = append(res.Tickets, tickets...)
	}
	return res, nil
}

func (s *pushService) post(ctx context.Context, messages []domain.PushMessage) (tickets []domain.PushTicket, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("push", start, err) }()

	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, domain.Upstream("push send", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, domain.Upstream("push send", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.Upstream("push send", fmt.Errorf("status %d: %s", resp.StatusCode, gjson.GetBytes(body, "errors.0.message").String()))
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsArray() {
		return nil, domain.Upstream("push send", fmt.Errorf("unexpected response body"))
	}
	for _, t := range data.Array() {
		tickets = append(tickets, domain.PushTicket{
			Status:  t.Get("status").String(),
			ID:      t.Get("id").String(),
			Message: t.Get("message").String(),
		})
	}
	return tickets, nil
}
