package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/authzkit/pkg/claims"
)

// JWT header constants required by RFC 7519.
const (
	headerType      = "JWT"
	headerAlgorithm = "HS256"
)

type header struct {
	Type      string `json:"typ"`
	Algorithm string `json:"alg"`
}

// AccessClaims is the token payload: the registered claims plus the
// authorization claims computed by pkg/claims.
type AccessClaims struct {
	Subject     string `json:"sub"`
	Issuer      string `json:"iss,omitempty"`
	ExpiresAt   int64  `json:"exp,omitempty"`
	IssuedAt    int64  `json:"iat,omitempty"`
	Permissions string `json:"permissions,omitempty"`
	DataKey     string `json:"datakey,omitempty"`
}

// Claims returns the authorization portion of the payload.
func (c AccessClaims) Claims() claims.Claims {
	return claims.Claims{Permissions: c.Permissions, DataKey: c.DataKey}
}

// Valid checks the temporal claims against the current time. A zero exp is
// treated as unset per RFC 7519.
func (c AccessClaims) Valid() error {
	if c.ExpiresAt > 0 && time.Now().Unix() > c.ExpiresAt {
		return ErrExpiredToken
	}
	return nil
}

// Service issues and verifies access tokens with HMAC-SHA256. The signing
// key lives only in memory and should be at least 32 bytes.
type Service struct {
	signingKey []byte
	issuer     string
}

// ServiceOption configures a Service during construction.
type ServiceOption func(*Service)

// WithIssuer sets the iss claim on issued tokens.
func WithIssuer(issuer string) ServiceOption {
	return func(s *Service) {
		s.issuer = issuer
	}
}

// New creates a token service with the provided signing key.
func New(signingKey []byte, opts ...ServiceOption) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	s := &Service{signingKey: signingKey}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue creates a signed access token for the given subject carrying the
// computed authorization claims. A zero ttl issues a non-expiring token.
func (s *Service) Issue(subject string, cl claims.Claims, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrMissingSubject
	}

	now := time.Now()
	payload := AccessClaims{
		Subject:     subject,
		Issuer:      s.issuer,
		IssuedAt:    now.Unix(),
		Permissions: cl.Permissions,
		DataKey:     cl.DataKey,
	}
	if ttl != 0 {
		payload.ExpiresAt = now.Add(ttl).Unix()
	}

	headerJSON, err := json.Marshal(header{Type: headerType, Algorithm: headerAlgorithm})
	if err != nil {
		return "", fmt.Errorf("failed to marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	signing := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return signing + "." + s.sign(signing), nil
}

// Parse verifies a token's signature, algorithm, and expiry, returning the
// embedded access claims.
func (s *Service) Parse(tokenString string) (AccessClaims, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return AccessClaims{}, ErrInvalidToken
	}

	// Constant-time comparison prevents timing attacks on the signature.
	signing := parts[0] + "." + parts[1]
	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(s.sign(signing))) != 1 {
		return AccessClaims{}, ErrInvalidSignature
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return AccessClaims{}, fmt.Errorf("failed to decode header: %w", err)
	}
	var hdr header
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return AccessClaims{}, fmt.Errorf("failed to unmarshal header: %w", err)
	}

	// Reject unexpected algorithms to prevent algorithm confusion attacks.
	if hdr.Algorithm != headerAlgorithm {
		return AccessClaims{}, ErrUnexpectedSigningMethod
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return AccessClaims{}, fmt.Errorf("failed to decode claims: %w", err)
	}
	var payload AccessClaims
	if err := json.Unmarshal(claimsJSON, &payload); err != nil {
		return AccessClaims{}, fmt.Errorf("failed to unmarshal claims: %w", err)
	}

	if err := payload.Valid(); err != nil {
		return AccessClaims{}, err
	}
	return payload, nil
}

// sign creates a base64url-encoded HMAC-SHA256 signature per RFC 7515.
func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.signingKey)
	h.Write([]byte(payload))
	return base64URLEncode(h.Sum(nil))
}

// base64URLEncode encodes without padding as RFC 7515 requires.
func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

// base64URLDecode restores the padding JWT tokens omit.
func base64URLDecode(s string) ([]byte, error) {
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
