package jwt

import (
	"PantryPal/domain"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const Issuer = "PANTRYPAL"

type (
	JWTService interface {
		GenerateToken(userID string, email string) (string, error)
		ValidateToken(token string) (*jwt.Token, error)
		GetEmailByToken(token string) (string, string, error)
	}

	jwtUserClaim struct {
		UserID string `json:"id"`
		Email  string `json:"email"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
		now       func() time.Time
	}
)

func NewJWTService(secretKey string, ttl time.Duration) JWTService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &jwtService{
		secretKey: secretKey,
		issuer:    Issuer,
		ttl:       ttl,
		now:       time.Now,
	}
}

func (j *jwtService) GenerateToken(userID string, email string) (string, error) {
	if j.secretKey == "" {
		return "", errors.New("jwt secret is not configured")
	}

	now := j.now()
	claims := jwtUserClaim{
		userID,
		email,
		jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateToken(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

// GetEmailByToken returns the email and user id carried by a valid token.
func (j *jwtService) GetEmailByToken(token string) (string, string, error) {
	t_Token, err := j.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", domain.ErrTokenExpired
		}
		return "", "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", "", domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*jwtUserClaim)
	if !ok || claims.Issuer != j.issuer || claims.Email == "" {
		return "", "", domain.ErrTokenInvalid
	}
	return claims.Email, claims.UserID, nil
}
