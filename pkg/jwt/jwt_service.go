package jwt

import (
	"Recipe-Platform/domain"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	DefaultTokenTTL = 120 * time.Minute
	purposeClaim    = "purpose"
)

type (
	JWTService interface {
		GenerateTokenUser(userId string, role string) (string, string, time.Time, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, string, string, error)
		GeneratePurposeToken(purpose string, data map[string]any, duration time.Duration) (string, error)
		ValidatePurposeToken(purpose string, token string) (jwt.MapClaims, error)
	}

	jwtUserClaim struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
	}
)

func NewJWTService(secretKey string, ttl time.Duration) JWTService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &jwtService{
		secretKey: secretKey,
		issuer:    "RECIPE-PLATFORM",
		ttl:       ttl,
	}
}

// GenerateTokenUser returns the signed token, its jti and its expiry. The jti
// is what sessions are keyed on.
func (j *jwtService) GenerateTokenUser(userId string, role string) (string, string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(j.ttl)
	jti := uuid.NewString()

	claims := jwtUserClaim{
		userId,
		role,
		jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userId,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tx, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", "", time.Time{}, err
	}
	return tx, jti, expiresAt, nil
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &jwtUserClaim{}, j.parseToken)
}

// GetUserIDByToken returns user id, role and jti.
func (j *jwtService) GetUserIDByToken(token string) (string, string, string, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", "", domain.ErrTokenExpired
		}
		return "", "", "", domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return "", "", "", domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*jwtUserClaim)
	if !ok || claims.UserID == "" || claims.ID == "" || claims.Issuer != j.issuer {
		return "", "", "", domain.ErrTokenInvalid
	}

	return claims.UserID, claims.Role, claims.ID, nil
}

func (j *jwtService) GeneratePurposeToken(purpose string, data map[string]any, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{}

	for key, value := range data {
		claims[key] = value
	}

	claims[purposeClaim] = purpose
	claims["exp"] = time.Now().Add(duration).Unix()
	claims["iat"] = time.Now().Unix()
	claims["iss"] = j.issuer

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ValidatePurposeToken rejects tokens minted for a different purpose, so a
// reset link cannot be replayed as a login or verification token.
func (j *jwtService) ValidatePurposeToken(purpose string, token string) (jwt.MapClaims, error) {
	t_Token, err := jwt.Parse(token, j.parseToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return jwt.MapClaims{}, domain.ErrTokenExpired
		}
		return jwt.MapClaims{}, domain.ErrTokenInvalid
	}

	if !t_Token.Valid {
		return jwt.MapClaims{}, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}, domain.ErrTokenInvalid
	}
	if got, _ := claims[purposeClaim].(string); got != purpose {
		return jwt.MapClaims{}, domain.ErrTokenInvalid
	}
	return claims, nil
}
