package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateToken(secret, Claims{EmployeeID: "emp-1", Role: RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.EmployeeID != "emp-1" {
		t.Fatalf("expected employee emp-1, got %s", claims.EmployeeID)
	}
	if claims.Role != RoleEmployee {
		t.Fatalf("expected role employee, got %s", claims.Role)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret-a", Claims{EmployeeID: "emp-1", Role: RoleAdmin}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ParseToken("secret-b", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{EmployeeID: "emp-1", Role: RoleEmployee}, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := CheckPassword(hash, "s3cret!"); err != nil {
		t.Fatalf("expected password to verify: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestPrincipalCanActFor(t *testing.T) {
	self := Principal{EmployeeID: "emp-1", Role: RoleEmployee}
	if !self.CanActFor("emp-1") {
		t.Fatal("employee should act for self")
	}
	if self.CanActFor("emp-2") {
		t.Fatal("employee must not act for another employee")
	}

	admin := Principal{EmployeeID: "emp-9", Role: RoleAdmin}
	if !admin.CanActFor("emp-2") {
		t.Fatal("admin should act for any employee")
	}
}
