package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plain password")
	}
	if err := CheckPassword("s3cret-pass", hash); err != nil {
		t.Errorf("CheckPassword rejected the correct password: %v", err)
	}
	if err := CheckPassword("wrong-pass", hash); err == nil {
		t.Error("CheckPassword accepted a wrong password")
	}
}

func TestIsValidRole(t *testing.T) {
	cases := []struct {
		role string
		want bool
	}{
		{"owner", true},
		{"admin", true},
		{"accountant", true},
		{"clerk", true},
		{"teacher", false},
		{"", false},
		{"Admin", false},
	}
	for _, tc := range cases {
		if got := IsValidRole(tc.role); got != tc.want {
			t.Errorf("IsValidRole(%q) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestIsValidPaymentStatus(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{"paid", true},
		{"pending", true},
		{"partial", true},
		{"overdue", true},
		{"active", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidPaymentStatus(tc.status); got != tc.want {
			t.Errorf("IsValidPaymentStatus(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestIsValidPaymentMethod(t *testing.T) {
	for _, method := range []string{"cash", "cheque", "online", "card"} {
		if !IsValidPaymentMethod(method) {
			t.Errorf("IsValidPaymentMethod(%q) = false, want true", method)
		}
	}
	for _, method := range []string{"", "crypto", "Cash"} {
		if IsValidPaymentMethod(method) {
			t.Errorf("IsValidPaymentMethod(%q) = true, want false", method)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"with\x00null", "withnull"},
		{"\x00  mixed \x00 ", "mixed"},
		{"clean", "clean"},
	}
	for _, tc := range cases {
		if got := SanitizeString(tc.in); got != tc.want {
			t.Errorf("SanitizeString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(16)
	if err != nil {
		t.Fatalf("GenerateRandomString returned error: %v", err)
	}
	if len(a) != 16 {
		t.Errorf("expected 16 characters, got %d", len(a))
	}
	b, _ := GenerateRandomString(16)
	if a == b {
		t.Error("two random strings were identical")
	}
}
