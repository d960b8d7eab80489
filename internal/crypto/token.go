// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-forum/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claim names carried by access tokens next to the registered ones.
const (
	ClaimUserID = "uid"
	ClaimRoles  = "roles"
)

// MinSignKeyLength is the minimal HS256 secret length in bytes.
const MinSignKeyLength = 32

// accessClaims is the wire form of an access token payload.
type accessClaims struct {
	UserID int64    `json:"uid"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

type jwtCodec struct {
	signKey []byte
	issuer  string
	now     func() time.Time
}

// CodecOption customizes a codec built by [NewTokenCodec].
type CodecOption func(*jwtCodec)

// WithClock replaces the wall clock used for iat, exp and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(c *jwtCodec) {
		c.now = now
	}
}

// NewTokenCodec returns an HS256 [TokenCodec]. The key is the raw bytes of
// signKey, which must be non-blank and at least [MinSignKeyLength] bytes.
func NewTokenCodec(signKey, issuer string, opts ...CodecOption) (TokenCodec, error) {
	if strings.TrimSpace(signKey) == "" {
		return nil, ErrEmptySignKey
	}
	if len(signKey) < MinSignKeyLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrWeakSignKey, MinSignKeyLength)
	}
	if strings.TrimSpace(issuer) == "" {
		return nil, ErrEmptyIssuer
	}

	codec := &jwtCodec{
		signKey: []byte(signKey),
		issuer:  issuer,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(codec)
	}

	return codec, nil
}

func (c *jwtCodec) Issue(principal models.Principal, ttl time.Duration) (string, error) {
	if ttl < time.Second {
		return "", ErrInvalidTTL
	}

	now := c.clock()
	roles := make([]string, len(principal.Authorities))
	copy(roles, principal.Authorities)

	claims := accessClaims{
		UserID: principal.UserID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Username,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenSigningFailed, err)
	}

	return signed, nil
}

func (c *jwtCodec) Verify(tokenString string) (models.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, jwt.MapClaims{}, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithJSONNumber(),
		jwt.WithTimeFunc(c.clock),
	)
	if err != nil {
		return models.AccessClaims{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.AccessClaims{}, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return models.AccessClaims{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	userID, err := ExtractUserID(claims)
	if err != nil {
		return models.AccessClaims{}, err
	}

	roles, err := extractRoles(claims)
	if err != nil {
		return models.AccessClaims{}, err
	}

	result := models.AccessClaims{
		Subject: subject,
		UserID:  userID,
		Roles:   roles,
		Issuer:  c.issuer,
	}
	if iat, _ := claims.GetIssuedAt(); iat != nil {
		result.IssuedAt = iat.UTC()
	}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		result.ExpiresAt = exp.UTC()
	}

	return result, nil
}

func (c *jwtCodec) keyFunc(token *jwt.Token) (any, error) {
	return c.signKey, nil
}

// clock is UTC with second granularity, the resolution of NumericDate.
// A token whose exp equals this instant is already expired.
func (c *jwtCodec) clock() time.Time {
	return c.now().UTC().Truncate(time.Second)
}

// ExtractUserID decodes the "uid" claim. It accepts integers, integral
// floating point values and numeric strings; anything else, including a
// missing claim, is [ErrInvalidToken].
func ExtractUserID(claims jwt.MapClaims) (int64, error) {
	raw, ok := claims[ClaimUserID]
	if !ok || raw == nil {
		return 0, fmt.Errorf("%w: missing %s claim", ErrInvalidToken, ClaimUserID)
	}

	switch v := raw.(type) {
	case json.Number:
		return parseNumericUserID(v.String())
	case string:
		return parseNumericUserID(strings.TrimSpace(v))
	case float64:
		return floatToUserID(v)
	case float32:
		return floatToUserID(float64(v))
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("%w: unsupported %s claim type %T", ErrInvalidToken, ClaimUserID, raw)
	}
}

func parseNumericUserID(s string) (int64, error) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparsable %s claim", ErrInvalidToken, ClaimUserID)
	}

	return floatToUserID(f)
}

func floatToUserID(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s claim is not an integer", ErrInvalidToken, ClaimUserID)
	}

	return int64(f), nil
}

func extractRoles(claims jwt.MapClaims) ([]string, error) {
	raw, ok := claims[ClaimRoles]
	if !ok || raw == nil {
		return []string{}, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s claim is not a list", ErrInvalidToken, ClaimRoles)
	}

	roles := make([]string, 0, len(list))
	for _, item := range list {
		role, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s claim holds a non-string value", ErrInvalidToken, ClaimRoles)
		}
		roles = append(roles, role)
	}

	return roles, nil
}
