package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// LoginTokenTTL is the lifetime of a token issued at login.
	LoginTokenTTL = time.Hour

	// DutyTokenTTL is the lifetime of the token returned when a duty is
	// started. It doubles as the duty-session handle: the duty id travels
	// inside the claims and is required to stop the duty.
	DutyTokenTTL = 6 * time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the subject identity carried by a verified token. DutyID is
// empty for login tokens.
type Claims struct {
	UserID   string
	Username string
	DutyID   string
}

// TokenService signs and verifies HS256 JWTs. The secret is injected once at
// construction so handlers never reach for process-wide state.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// IssueLoginToken creates a short-lived token for an authenticated user.
func (s *TokenService) IssueLoginToken(userID, username string) (string, error) {
	return s.issue(jwt.MapClaims{
		"user_id":  userID,
		"username": username,
	}, LoginTokenTTL)
}

// IssueDutyToken creates the long-lived token handed back when a duty
// starts, embedding the duty's identifier.
func (s *TokenService) IssueDutyToken(dutyID, username string) (string, error) {
	return s.issue(jwt.MapClaims{
		"duty_id":  dutyID,
		"username": username,
	}, DutyTokenTTL)
}

func (s *TokenService) issue(claims jwt.MapClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Malformed, unsigned,
// wrong-algorithm and expired tokens all come back as ErrInvalidToken.
// There is no refresh mechanism.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var claims Claims
	if v, ok := mapClaims["user_id"].(string); ok {
		claims.UserID = v
	}
	if v, ok := mapClaims["username"].(string); ok {
		claims.Username = v
	}
	if v, ok := mapClaims["duty_id"].(string); ok {
		claims.DutyID = v
	}
	return claims, nil
}
