package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"   // secure random number generation
    "crypto/sha256" // SHA-256 hashing for reset tokens
    "encoding/hex"  // hex encoding functions
    "errors"        // sentinel errors for token verification
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// Roles carried in the "role" claim of issued tokens.  Contributor tokens
// embed the user id as subject; admin tokens are issued only through the
// operator-credential login and carry no subject.
const (
    RoleUser  = "user"
    RoleAdmin = "admin"
)

// Verification failure modes.  Expired tokens are distinguished from all
// other parse/signature failures so that handlers can answer with a
// precise message.
var (
    ErrTokenExpired = errors.New("token expired")
    ErrTokenInvalid = errors.New("invalid token")
)

// BearerToken represents a signed JWT along with its expiry.
type BearerToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// Claims is the verified content of a bearer token.
type Claims struct {
    Subject uint64 // user id; zero for admin tokens
    Role    string // "user" or "admin"
}

// NewUserToken builds and signs an HS256 JWT for a contributor.  The JWT
// includes standard claims: subject (sub), role, expiration (exp) and
// issued at (iat).  Tokens are long-lived (the archive issues 30-day
// sessions) so ttlDays is expressed in days.
func NewUserToken(secret string, userID uint64, ttlDays int) (BearerToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub":  userID,
        "role": RoleUser,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return BearerToken{}, err
    }
    return BearerToken{Token: signed, Exp: exp}, nil
}

// NewAdminToken signs an admin-role JWT.  Admin identity is established by
// the operator-configured credentials, not a users row, so the token
// carries only the role claim.
func NewAdminToken(secret string, ttlDays int) (BearerToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "role": RoleAdmin,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return BearerToken{}, err
    }
    return BearerToken{Token: signed, Exp: exp}, nil
}

// VerifyToken parses and validates a bearer token, returning its claims.
// Signature mismatch, malformed payload or an unexpected signing method
// yield ErrTokenInvalid; a structurally valid token past its expiry
// yields ErrTokenExpired.
func VerifyToken(secret, raw string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Type assert the signing method to HMAC; reject others.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return Claims{}, ErrTokenExpired
        }
        return Claims{}, ErrTokenInvalid
    }
    if !tok.Valid {
        return Claims{}, ErrTokenInvalid
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrTokenInvalid
    }
    out := Claims{}
    if role, ok := mc["role"].(string); ok {
        out.Role = role
    }
    if out.Role != RoleUser && out.Role != RoleAdmin {
        return Claims{}, ErrTokenInvalid
    }
    // JWT numeric values decode as float64.
    if sub, ok := mc["sub"].(float64); ok {
        out.Subject = uint64(sub)
    }
    if out.Role == RoleUser && out.Subject == 0 {
        return Claims{}, ErrTokenInvalid
    }
    return out, nil
}

// NewResetToken returns a cryptographically secure random token (raw) and
// its expiration time.  Reset tokens are valid for one hour and only the
// SHA-256 hash of the raw value is persisted.
func NewResetToken() (raw string, exp time.Time, err error) {
    raw, err = randomHex(32) // 32 bytes -> 64 hex chars
    if err != nil {
        return "", time.Time{}, err
    }
    return raw, time.Now().UTC().Add(time.Hour), nil
}

// HashResetRaw returns the SHA-256 hash of the raw reset token as a hex
// string.  Storing only the hash prevents attackers from using stolen
// database entries to reset passwords.
func HashResetRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
