package notification

import (
	"PantryPal/domain"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pushRecorder struct {
	mu      sync.Mutex
	batches [][]domain.PushMessage
}

func (p *pushRecorder) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var batch []domain.PushMessage
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		p.mu.Lock()
		p.batches = append(p.batches, batch)
		p.mu.Unlock()

		tickets := make([]map[string]string, 0, len(batch))
		for i := range batch {
			tickets = append(tickets, map[string]string{"status": "ok", "id": fmt.Sprintf("ticket-%d", i)})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": tickets})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSendSkipsMalformedTokens(t *testing.T) {
	rec := &pushRecorder{}
	svc := NewPushService(rec.server(t).URL)

	res, err := svc.Send(context.Background(), domain.SendNotificationRequest{
		Tokens:  []string{"ExponentPushToken[abc]", "not-a-token", "ExpoPushToken[def]"},
		Title:   "Hello",
		Message: "World",
	})
	require.NoError(t, err)

	assert.Len(t, res.Tickets, 2)
	assert.Equal(t, []string{"not-a-token"}, res.Skipped)
	require.Len(t, rec.batches, 1)
	assert.Equal(t, "ExponentPushToken[abc]", rec.batches[0][0].To)
	assert.Equal(t, "World", rec.batches[0][0].Body)
	assert.Equal(t, "default", rec.batches[0][0].Sound)
}

func TestSendChunksLargeBatches(t *testing.T) {
	rec := &pushRecorder{}
	svc := NewPushService(rec.server(t).URL)

	tokens := make([]string, 0, 250)
	for i := 0; i < 250; i++ {
		tokens = append(tokens, fmt.Sprintf("ExponentPushToken[%d]", i))
	}

	res, err := svc.Send(context.Background(), domain.SendNotificationRequest{Tokens: tokens, Message: "hi"})
	require.NoError(t, err)
	assert.Len(t, res.Tickets, 250)
	require.Len(t, rec.batches, 3)
	assert.Len(t, rec.batches[0], 100)
	assert.Len(t, rec.batches[2], 50)
}

func TestSendWithoutValidTokens(t *testing.T) {
	rec := &pushRecorder{}
	svc := NewPushService(rec.server(t).URL)

	_, err := svc.Send(context.Background(), domain.SendNotificationRequest{Tokens: []string{"ExponentPushToken[]", "x"}, Message: "hi"})
	assert.ErrorIs(t, err, domain.ErrNoValidPushTokens)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, rec.batches)
}

func TestSendGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"errors":[{"code":"TOO_MANY_REQUESTS","message":"slow down"}]}`))
	}))
	defer srv.Close()

	_, err := NewPushService(srv.URL).Send(context.Background(), domain.SendNotificationRequest{
		Tokens:  []string{"ExponentPushToken[abc]"},
		Message: "hi",
	})
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "slow down")
}
