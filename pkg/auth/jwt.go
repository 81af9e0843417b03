package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/medex/marketplace-api/internal/model"
)

// IdentityClaims bind a caller address to a bearer token. The middleware
// resolves these into the request context; all registry authorization is
// keyed off the address, never off token metadata.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Address string `json:"address"`
}

// AccessClaims are the OTP issued per purchase: scoped to the buyer, the
// listing and the snapshot records, expiring when the purchased window
// ends. The buyer presents this token to retrieve record contents
// out-of-band.
type AccessClaims struct {
	jwt.RegisteredClaims
	Buyer     string   `json:"buyer"`
	ListingID uint64   `json:"listing_id"`
	RecordIDs []string `json:"record_ids"`
}

type TokenService struct {
	secret         []byte
	identityExpiry time.Duration
}

func NewTokenService(secret string, identityExpiry time.Duration) *TokenService {
	return &TokenService{
		secret:         []byte(secret),
		identityExpiry: identityExpiry,
	}
}

func (s *TokenService) GenerateIdentityToken(addr model.Address) (string, error) {
	now := time.Now()
	claims := IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   addr.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.identityExpiry)),
		},
		Address: addr.String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) ValidateIdentityToken(tokenString string) (model.Address, error) {
	claims := &IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Address == "" {
		return "", fmt.Errorf("invalid token claims")
	}
	return model.Address(claims.Address), nil
}

// IssueAccessToken mints the purchase OTP.
func (s *TokenService) IssueAccessToken(buyer model.Address, listingID uint64, recordIDs []uuid.UUID, expiresAt time.Time) (string, error) {
	ids := make([]string, len(recordIDs))
	for i, id := range recordIDs {
		ids[i] = id.String()
	}

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   buyer.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Buyer:     buyer.String(),
		ListingID: listingID,
		RecordIDs: ids,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) ValidateAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid access token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid access token claims")
	}
	return claims, nil
}

func (s *TokenService) keyFunc(*jwt.Token) (interface{}, error) {
	return s.secret, nil
}
