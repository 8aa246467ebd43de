package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateItemRequestExpirationPresence(t *testing.T) {
	var absent UpdateItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"quantity":5}`), &absent))
	assert.False(t, absent.ExpirationDate.Set)
	require.NotNil(t, absent.Quantity)
	assert.Equal(t, 5.0, *absent.Quantity)
	assert.Nil(t, absent.Name)

	var cleared UpdateItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"expiration_date":null}`), &cleared))
	assert.True(t, cleared.ExpirationDate.Set)
	assert.Nil(t, cleared.ExpirationDate.Value)

	var set UpdateItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"expiration_date":"2026-04-01"}`), &set))
	assert.True(t, set.ExpirationDate.Set)
	require.NotNil(t, set.ExpirationDate.Value)
	assert.Equal(t, "2026-04-01", set.ExpirationDate.Value.Format(DateLayout))

	var bad UpdateItemRequest
	err := json.Unmarshal([]byte(`{"expiration_date":"soon"}`), &bad)
	assert.ErrorIs(t, err, ErrInvalidExpirationDate)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("  ")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = ParseDate("2026-04-01T10:30:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, "2026-04-01T08:30:00Z", d.Format("2006-01-02T15:04:05Z07:00"))

	_, err = ParseDate("04/01/2026")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIsExpoPushToken(t *testing.T) {
	assert.True(t, IsExpoPushToken("ExponentPushToken[xxxxxxxxxxxxxxxxxxxxxx]"))
	assert.True(t, IsExpoPushToken("ExpoPushToken[abc]"))
	assert.False(t, IsExpoPushToken("ExponentPushToken[]"))
	assert.False(t, IsExpoPushToken("fcm:abc"))
}

func TestErrorTaxonomy(t *testing.T) {
	assert.ErrorIs(t, ErrLocationNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrTokenExpired, ErrUnauthorized)
	assert.ErrorIs(t, ErrVersionConflict, ErrConflict)
	assert.ErrorIs(t, Invalid("x"), ErrValidation)
	assert.Equal(t, "location not found", ErrLocationNotFound.Error())
}
