package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/golang-jwt/jwt/v5"
)

// Supported token formats.
const (
	FormatJWT    = "jwt"
	FormatPASETO = "paseto"
)

const (
	tokenIssuer   = "brain-server"
	tokenAudience = "brain-client"

	// userIDClaim carries the authenticated user's ID in every token format.
	userIDClaim = "id"

	minJWTSecretLength = 16
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, wrong format, expired, or missing the user claim.
var ErrInvalidToken = errors.New("invalid token")

// Claims is what a verified token asserts.
type Claims struct {
	UserID   string
	IssuedAt time.Time
	// ExpiresAt is zero for tokens issued without a TTL.
	ExpiresAt time.Time
}

// signer is one token wire format.
type signer interface {
	sign(c Claims) (string, error)
	parse(token string, now time.Time) (Claims, error)
}

// TokenService issues and verifies bearer tokens naming a user.
type TokenService struct {
	signer signer
	format string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service.
// key is the HS256 secret for FormatJWT and the 32-byte symmetric key for FormatPASETO.
// A ttl of zero issues tokens that never expire.
func NewTokenService(format string, key []byte, ttl time.Duration) (*TokenService, error) {
	if ttl < 0 {
		return nil, fmt.Errorf("token ttl must not be negative, got %s", ttl)
	}

	var s signer
	switch strings.ToLower(format) {
	case FormatJWT, "":
		if len(key) < minJWTSecretLength {
			return nil, fmt.Errorf("JWT secret must be at least %d bytes, got %d", minJWTSecretLength, len(key))
		}
		s = &jwtSigner{secret: key}
		format = FormatJWT
	case FormatPASETO:
		if len(key) != KeyLength {
			return nil, fmt.Errorf("PASETO v4 key must be exactly %d bytes, got %d", KeyLength, len(key))
		}
		k, err := paseto.V4SymmetricKeyFromBytes(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
		}
		s = &pasetoSigner{key: k}
		format = FormatPASETO
	default:
		return nil, fmt.Errorf("unsupported token format %q", format)
	}

	return &TokenService{
		signer: s,
		format: format,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a token for userID.
func (s *TokenService) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("issue token: empty user id")
	}

	now := s.now().UTC().Truncate(time.Second)
	c := Claims{UserID: userID, IssuedAt: now}
	if s.ttl > 0 {
		c.ExpiresAt = now.Add(s.ttl)
	}

	token, err := s.signer.sign(c)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks the token and returns its claims.
// All failures wrap ErrInvalidToken.
func (s *TokenService) Verify(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}

	c, err := s.signer.parse(token, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if c.UserID == "" {
		return nil, fmt.Errorf("%w: missing %q claim", ErrInvalidToken, userIDClaim)
	}
	return &c, nil
}

// Format returns the wire format tokens are issued in.
func (s *TokenService) Format() string {
	return s.format
}

// TTL returns the configured token lifetime, zero meaning no expiry.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

type jwtSigner struct {
	secret []byte
}

type jwtClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

func (j *jwtSigner) sign(c Claims) (string, error) {
	cl := jwtClaims{
		UserID: c.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.IssuedAt),
		},
	}
	if !c.ExpiresAt.IsZero() {
		cl.ExpiresAt = jwt.NewNumericDate(c.ExpiresAt)
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(j.secret)
}

func (j *jwtSigner) parse(token string, now time.Time) (Claims, error) {
	var cl jwtClaims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(*jwt.Token) (any, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return Claims{}, err
	}
	if !parsed.Valid {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}

	out := Claims{UserID: cl.UserID}
	if cl.IssuedAt != nil {
		out.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		out.ExpiresAt = cl.ExpiresAt.Time
	}
	return out, nil
}

type pasetoSigner struct {
	key paseto.V4SymmetricKey
}

func (p *pasetoSigner) sign(c Claims) (string, error) {
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(c.IssuedAt)
	token.SetNotBefore(c.IssuedAt)
	if !c.ExpiresAt.IsZero() {
		token.SetExpiration(c.ExpiresAt)
	}
	if err := token.Set(userIDClaim, c.UserID); err != nil {
		return "", err
	}

	return token.V4Encrypt(p.key, nil), nil
}

func (p *pasetoSigner) parse(raw string, now time.Time) (Claims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(notBefore(now))

	token, err := parser.ParseV4Local(p.key, raw, nil)
	if err != nil {
		return Claims{}, err
	}

	var out Claims
	if out.UserID, err = token.GetString(userIDClaim); err != nil {
		return Claims{}, err
	}
	if iat, err := token.GetIssuedAt(); err == nil {
		out.IssuedAt = iat
	}
	if exp, err := token.GetExpiration(); err == nil {
		out.ExpiresAt = exp
		if !now.Before(exp) {
			return Claims{}, errors.New("this token has expired")
		}
	}
	return out, nil
}

// notBefore rejects tokens used before their nbf claim. Unlike paseto.ValidAt
// it does not require an exp claim.
func notBefore(now time.Time) paseto.Rule {
	return func(token paseto.Token) error {
		nbf, err := token.GetNotBefore()
		if err != nil {
			return err
		}
		if now.Before(nbf) {
			return errors.New("this token is not valid yet")
		}
		return nil
	}
}
