package service

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	googleJWKSURL    = "https://www.googleapis.com/oauth2/v3/certs"
	googleIssuer     = "https://accounts.google.com"
	googleIssuerBare = "accounts.google.com"

	// How long a fetched key set stays valid before it is refreshed.
	googleKeySetTTL = 1 * time.Hour
)

var (
	ErrGoogleKeyNotFound  = errors.New("google signing key not found for token kid")
	ErrGoogleAudience     = errors.New("google ID token audience mismatch")
	ErrGoogleIssuer       = errors.New("google ID token issuer mismatch")
	ErrGoogleKeysFetch    = errors.New("failed to fetch google signing keys")
	ErrGoogleTokenParsing = errors.New("failed to parse google ID token")
)

// googleVerifier validates Google ID tokens against Google's published JWKS.
// The key set is cached with a TTL; a token carrying a kid absent from the
// cached snapshot forces one refetch before failing, so key rotations are
// picked up without waiting for expiry.
type googleVerifier struct {
	clientID   string
	httpClient *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewGoogleVerifier creates a verifier for ID tokens issued to the given
// OAuth client ID.
func NewGoogleVerifier(clientID string) GoogleTokenVerifier {
	return &googleVerifier{
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// googleIDClaims is the subset of Google ID token claims we consume.
type googleIDClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// Verify parses and validates the ID token, returning subject and email.
func (v *googleVerifier) Verify(ctx context.Context, idToken string) (string, string, error) {
	claims := &googleIDClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, ErrGoogleKeyNotFound
		}
		return v.keyForKid(ctx, kid)
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrGoogleTokenParsing, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", "", ErrGoogleTokenParsing
	}

	if claims.Issuer != googleIssuer && claims.Issuer != googleIssuerBare {
		return "", "", ErrGoogleIssuer
	}
	if v.clientID != "" && !containsAudience(claims.Audience, v.clientID) {
		return "", "", ErrGoogleAudience
	}

	return claims.Subject, claims.Email, nil
}

func containsAudience(audience jwt.ClaimStrings, clientID string) bool {
	for _, aud := range audience {
		if aud == clientID {
			return true
		}
	}
	return false
}

// keyForKid returns the cached key for the kid, refreshing the cache on
// expiry or when the kid is absent from the current snapshot.
func (v *googleVerifier) keyForKid(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	expired := time.Since(v.fetchedAt) > googleKeySetTTL
	if v.keys == nil || expired {
		if err := v.refetchLocked(ctx); err != nil {
			return nil, err
		}
	}

	if key, ok := v.keys[kid]; ok {
		return key, nil
	}

	// Unknown kid on a fresh-ish cache: Google may have rotated keys.
	if !expired {
		if err := v.refetchLocked(ctx); err != nil {
			return nil, err
		}
		if key, ok := v.keys[kid]; ok {
			return key, nil
		}
	}

	return nil, ErrGoogleKeyNotFound
}

// jwk is one entry of Google's JWKS document.
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (v *googleVerifier) refetchLocked(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleJWKSURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGoogleKeysFetch, err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGoogleKeysFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrGoogleKeysFetch, resp.StatusCode)
	}

	var doc struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrGoogleKeysFetch, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" || k.Kid == "" {
			continue
		}
		pub, err := parseRSAKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: empty key set", ErrGoogleKeysFetch)
	}

	v.keys = keys
	v.fetchedAt = time.Now()
	return nil
}

func parseRSAKey(k jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	if e <= 0 {
		return nil, errors.New("invalid RSA exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
