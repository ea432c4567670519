package attendance

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestQRCodecRoundTrip(t *testing.T) {
	codec := NewQRCodec("qr-secret", 5*time.Minute)
	token, err := codec.Mint("emp-1", 12*time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	employeeID, rej := codec.Verify(token, time.Now())
	if rej != nil {
		t.Fatalf("expected accept, got %s", rej.Code)
	}
	if employeeID != "emp-1" {
		t.Fatalf("expected emp-1, got %s", employeeID)
	}
}

func TestQRCodecEmbeddedExpiryAuthoritative(t *testing.T) {
	codec := NewQRCodec("qr-secret", 5*time.Minute)
	token, err := codec.Mint("emp-1", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	// Fifty minutes later: far past the 5-minute fallback, but the token's
	// own expiry still holds.
	if _, rej := codec.Verify(token, time.Now().Add(50*time.Minute)); rej != nil {
		t.Fatalf("expected accept within embedded expiry, got %s", rej.Code)
	}

	if _, rej := codec.Verify(token, time.Now().Add(2*time.Hour)); rej == nil || rej.Code != CodeQRExpired {
		t.Fatalf("expected %s past embedded expiry, got %v", CodeQRExpired, rej)
	}
}

func mintWithoutExpiry(t *testing.T, secret, employeeID string, issuedAt time.Time) string {
	t.Helper()
	claims := QRClaims{
		EmployeeID:       employeeID,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(issuedAt)},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestQRCodecFallbackValidity(t *testing.T) {
	codec := NewQRCodec("qr-secret", 5*time.Minute)
	issued := time.Now()

	fresh := mintWithoutExpiry(t, "qr-secret", "emp-2", issued)
	if _, rej := codec.Verify(fresh, issued.Add(4*time.Minute)); rej != nil {
		t.Fatalf("expected accept at 4 minutes, got %s", rej.Code)
	}

	// Issued six minutes ago, no embedded expiry: expired.
	if _, rej := codec.Verify(fresh, issued.Add(6*time.Minute)); rej == nil || rej.Code != CodeQRExpired {
		t.Fatalf("expected %s at 6 minutes, got %v", CodeQRExpired, rej)
	}
}

func TestQRCodecRejectsMalformedAndForeign(t *testing.T) {
	codec := NewQRCodec("qr-secret", 5*time.Minute)

	if _, rej := codec.Verify("not-a-token", time.Now()); rej == nil || rej.Code != CodeQRInvalid {
		t.Fatalf("expected %s for garbage, got %v", CodeQRInvalid, rej)
	}

	foreign := mintWithoutExpiry(t, "other-secret", "emp-3", time.Now())
	if _, rej := codec.Verify(foreign, time.Now()); rej == nil || rej.Code != CodeQRInvalid {
		t.Fatalf("expected %s for wrong signature, got %v", CodeQRInvalid, rej)
	}

	empty := mintWithoutExpiry(t, "qr-secret", "", time.Now())
	if _, rej := codec.Verify(empty, time.Now()); rej == nil || rej.Code != CodeQRInvalid {
		t.Fatalf("expected %s for missing employee, got %v", CodeQRInvalid, rej)
	}
}
