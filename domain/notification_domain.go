package domain

import (
	"fmt"
)

const (
	DigestSubject = "PantryPal: Items Expiring Soon"
)

var (
	MessageSuccessSendNotification = "notifications sent"
	MessageFailedSendNotification  = "failed to send notifications"

	ErrNoValidPushTokens = fmt.Errorf("%w: no valid push tokens", ErrValidation)
)

type (
	SendNotificationRequest struct {
		Tokens  []string       `json:"tokens" validate:"required,min=1,dive,required"`
		Title   string         `json:"title" validate:"omitempty,max=100"`
		Message string         `json:"message" validate:"required,max=1000"`
		Data    map[string]any `json:"data"`
	}

	PushMessage struct {
		To    string         `json:"to"`
		Sound string         `json:"sound,omitempty"`
		Title string         `json:"title,omitempty"`
		Body  string         `json:"body"`
		Data  map[string]any `json:"data,omitempty"`
	}

	PushTicket struct {
		Status  string `json:"status"`
		ID      string `json:"id,omitempty"`
		Message string `json:"message,omitempty"`
	}

	SendNotificationResponse struct {
		Tickets []PushTicket `json:"tickets"`
		Skipped []string     `json:"skipped,omitempty"`
	}

	DigestReport struct {
		UsersScanned int `json:"users_scanned"`
		EmailsSent   int `json:"emails_sent"`
		PushesSent   int `json:"pushes_sent"`
		Failures     int `json:"failures"`
	}
)

// IsExpoPushToken reports whether token looks like an Expo push token.
func IsExpoPushToken(token string) bool {
	for _, prefix := range []string{"ExponentPushToken[", "ExpoPushToken["} {
		if len(token) > len(prefix)+1 && token[:len(prefix)] == prefix && token[len(token)-1] == ']' {
			return true
		}
	}
	return false
}
