package domain

import (
	"fmt"
	"time"
)

const (
	DeviceTypeIOS     = "ios"
	DeviceTypeAndroid = "android"
	DeviceTypeWeb     = "web"
)

var (
	MessageSuccessLogin             = "login successful"
	MessageSuccessLogout            = "logout successful"
	MessageSuccessGetDetail         = "user detail retrieved successfully"
	MessageSuccessUpdateUser        = "user updated successfully"
	MessageSuccessRegisterPushToken = "push token registered successfully"

	MessageFailedLogin             = "failed to login"
	MessageFailedGetDetail         = "failed to get user detail"
	MessageFailedUpdateUser        = "failed to update user"
	MessageFailedRegisterPushToken = "failed to register push token"

	ErrIdentityRejected = fmt.Errorf("%w: identity provider rejected the token", ErrUnauthorized)
	ErrEmailNotVerified = fmt.Errorf("%w: email address is not verified", ErrUnauthorized)
)

type (
	GoogleSignInRequest struct {
		AccessToken string `json:"access_token" validate:"required"`
		DeviceType  string `json:"device_type" validate:"omitempty,oneof=ios android web"`
	}

	// Identity is what a verified identity provider tells us about the caller.
	Identity struct {
		Email   string
		Name    string
		Picture string
	}

	SignInResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}

	UpdateUserRequest struct {
		Name           *string `json:"name" validate:"omitempty,min=1,max=100"`
		SetupCompleted *bool   `json:"setup_completed"`
		DeviceType     *string `json:"device_type" validate:"omitempty,oneof=ios android web"`
	}

	RegisterPushTokenRequest struct {
		Token string `json:"token" validate:"required"`
	}

	UserResponse struct {
		ID             string     `json:"id"`
		Name           string     `json:"name"`
		Email          string     `json:"email"`
		Image          string     `json:"image,omitempty"`
		HasAccess      bool       `json:"has_access"`
		FirstLogin     bool       `json:"first_login"`
		SetupCompleted bool       `json:"setup_completed"`
		DeviceType     string     `json:"device_type,omitempty"`
		LastLogin      *time.Time `json:"last_login,omitempty"`
		Locations      int        `json:"locations"`
	}
)
