package jwt

import "testing"

func TestInitRequiresSecret(t *testing.T) {
	if err := Init(""); err == nil {
		t.Fatal("Init with empty secret should fail")
	}
	if err := Init("test-secret"); err != nil {
		t.Fatalf("Init: %v", err)
	}
}

func TestGenerateValidateRoundTrip(t *testing.T) {
	if err := Init("test-secret"); err != nil {
		t.Fatal(err)
	}

	token, err := Generate("user-123", "rider@example.com", true)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	claims, err := Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != "user-123" || claims.Email != "rider@example.com" || !claims.IsAdmin {
		t.Errorf("claims round-trip lost data: %+v", claims)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	if err := Init("test-secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := Validate("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	if err := Init("secret-a"); err != nil {
		t.Fatal(err)
	}
	token, err := Generate("u", "u@example.com", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := Init("secret-b"); err != nil {
		t.Fatal(err)
	}
	if _, err := Validate(token); err == nil {
		t.Error("token signed with old secret validated")
	}
}
