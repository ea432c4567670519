package attendance

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// QRClaims is the payload carried inside a badge token. The expiry claim,
// when present, is authoritative; tokens without one fall back to a short
// since-issuance window.
type QRClaims struct {
	EmployeeID string `json:"eid"`
	jwt.RegisteredClaims
}

type QRCodec struct {
	secret           string
	fallbackValidity time.Duration
}

func NewQRCodec(secret string, fallbackValidity time.Duration) *QRCodec {
	return &QRCodec{secret: secret, fallbackValidity: fallbackValidity}
}

// Mint issues a signed badge token for employeeID, valid for ttl.
func (c *QRCodec) Mint(employeeID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := QRClaims{
		EmployeeID: employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.secret))
}

// Verify decodes and checks a badge token against now. On success it returns
// the employee ID the token was minted for.
func (c *QRCodec) Verify(tokenString string, now time.Time) (string, *Rejection) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var claims QRClaims
	token, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return []byte(c.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return claims.EmployeeID, reject(CodeQRExpired, "QR code has expired")
		}
		return "", reject(CodeQRInvalid, "QR code could not be verified")
	}
	if !token.Valid || claims.EmployeeID == "" {
		return "", reject(CodeQRInvalid, "QR code could not be verified")
	}

	// No embedded expiry: enforce the since-issuance fallback.
	if claims.ExpiresAt == nil {
		if claims.IssuedAt == nil {
			return "", reject(CodeQRInvalid, "QR code carries no issuance time")
		}
		if now.Sub(claims.IssuedAt.Time) > c.fallbackValidity {
			return claims.EmployeeID, reject(CodeQRExpired, "QR code has expired")
		}
	}

	return claims.EmployeeID, nil
}
