package utils

import "testing"

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name string
		pw   string
		ok   bool
	}{
		{"valid", "Str0ng!pass", true},
		{"valid no digit", "Strong!pass", true},
		{"too short", "Ab!1", false},
		{"no uppercase", "weak!pass1", false},
		{"no lowercase", "WEAK!PASS1", false},
		{"no special", "Weakpass1", false},
		{"empty", "", false},
		{"exactly eight", "Abcdef!g", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.pw)
			if tc.ok && err != nil {
				t.Fatalf("expected %q to pass, got %v", tc.pw, err)
			}
			if !tc.ok && err != ErrWeakPassword {
				t.Fatalf("expected ErrWeakPassword for %q, got %v", tc.pw, err)
			}
		})
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng!pass", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Str0ng!pass" {
		t.Fatal("hash equals plaintext")
	}
	if !VerifyPassword(hash, "Str0ng!pass") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "wrong!Pass1") {
		t.Fatal("wrong password accepted")
	}
}
