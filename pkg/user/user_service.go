package user

import (
	"PantryPal/domain"
	"PantryPal/entities"
	"PantryPal/pkg/jwt"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const (
	signInAttempts  = 3
	signInRetryBase = time.Second
)

// DefaultLocations are seeded, empty, for every new user.
var DefaultLocations = []string{"Kitchen Pantry", "Kitchen Fridge"}

type (
	UserService interface {
		SignInWithGoogle(ctx context.Context, req domain.GoogleSignInRequest) (domain.SignInResponse, error)
		Me(ctx context.Context, email string) (domain.UserResponse, error)
		UpdateProfile(ctx context.Context, email string, req domain.UpdateUserRequest) (domain.UserResponse, error)
		RegisterPushToken(ctx context.Context, email string, token string) error
	}

	userService struct {
		userRepository UserRepository
		verifier       IdentityVerifier
		jwtService     jwt.JWTService
		retryBase      time.Duration
		now            func() time.Time
	}
)

func NewUserService(userRepository UserRepository, verifier IdentityVerifier, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		verifier:       verifier,
		jwtService:     jwtService,
		retryBase:      signInRetryBase,
		now:            time.Now,
	}
}

// NewUser builds a first-login aggregate with the default empty locations.
func NewUser(identity domain.Identity, now time.Time) *entities.User {
	u := &entities.User{
		ID:         uuid.NewString(),
		Name:       identity.Name,
		Email:      NormalizeEmail(identity.Email),
		Image:      identity.Picture,
		FirstLogin: true,
		Storage:    make([]entities.StorageLocation, 0, len(DefaultLocations)),
		LastLogin:  &now,
		Timestamp:  entities.Timestamp{CreatedAt: now, UpdatedAt: now},
	}
	for _, name := range DefaultLocations {
		u.Storage = append(u.Storage, entities.StorageLocation{
			ID:         uuid.NewString(),
			Name:       name,
			Containers: []entities.Container{},
		})
	}
	return u
}

func (s *userService) SignInWithGoogle(ctx context.Context, req domain.GoogleSignInRequest) (domain.SignInResponse, error) {
	identity, err := s.verifier.Verify(ctx, req.AccessToken)
	if err != nil {
		return domain.SignInResponse{}, err
	}

	var user *entities.User
	backoff := retry.WithMaxRetries(signInAttempts-1, retry.NewExponential(s.retryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		u, err := s.provision(ctx, identity, req.DeviceType)
		if err != nil {
			if errors.Is(err, domain.ErrUpstream) || errors.Is(err, domain.ErrConflict) {
				log.Warnw("sign-in provisioning failed, retrying", "email", identity.Email, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		log.Errorw("sign-in provisioning gave up", "email", identity.Email, "error", err)
		return domain.SignInResponse{}, err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return domain.SignInResponse{}, err
	}

	return domain.SignInResponse{
		Token: token,
		User:  toUserResponse(user),
	}, nil
}

// provision finds or creates the user record for a verified identity.
func (s *userService) provision(ctx context.Context, identity domain.Identity, deviceType string) (*entities.User, error) {
	now := s.now()

	user, err := s.userRepository.FindByEmail(ctx, identity.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		user = NewUser(identity, now)
		user.DeviceType = deviceType
		if err := s.userRepository.Create(ctx, user); err != nil {
			return nil, err
		}
		log.Infow("user created", "email", user.Email, "id", user.ID)
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	user.FirstLogin = false
	user.LastLogin = &now
	user.UpdatedAt = now
	if user.Name == "" {
		user.Name = identity.Name
	}
	if user.Image == "" {
		user.Image = identity.Picture
	}
	if deviceType != "" {
		user.DeviceType = deviceType
	}

	if err := s.userRepository.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Me(ctx context.Context, email string) (domain.UserResponse, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, email string, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return domain.UserResponse{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.UserResponse{}, domain.ErrEmptyName
		}
		user.Name = name
	}
	if req.SetupCompleted != nil {
		user.SetupCompleted = *req.SetupCompleted
	}
	if req.DeviceType != nil {
		user.DeviceType = *req.DeviceType
	}
	user.UpdatedAt = s.now()

	if err := s.userRepository.Save(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) RegisterPushToken(ctx context.Context, email string, token string) error {
	token = strings.TrimSpace(token)
	if !domain.IsExpoPushToken(token) {
		return domain.Invalid("not a push token")
	}

	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	for _, t := range user.PushTokens {
		if t == token {
			return nil
		}
	}
	user.PushTokens = append(user.PushTokens, token)
	user.UpdatedAt = s.now()

	return s.userRepository.Save(ctx, user)
}

func toUserResponse(u *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Image:          u.Image,
		HasAccess:      u.HasAccess,
		FirstLogin:     u.FirstLogin,
		SetupCompleted: u.SetupCompleted,
		DeviceType:     u.DeviceType,
		LastLogin:      u.LastLogin,
		Locations:      len(u.Storage),
	}
}
