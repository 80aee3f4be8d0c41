// utils/validation_test.go
package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{"+61412345678", "61412345678", "+1 (555) 123-4567"}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = false, want true", phone)
		}
	}

	invalid := []string{"", "abc", "+0123"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Errorf("ValidatePhone(%q) = true, want false", phone)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"dana@example.com", " sales@acme.com.au "}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{"", "no-at-sign", "two@@example.com", "missing@tld"}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidateABN(t *testing.T) {
	if !ValidateABN("51 824 753 556") {
		t.Error("spaced 11-digit ABN rejected")
	}
	if !ValidateABN("51824753556") {
		t.Error("plain 11-digit ABN rejected")
	}
	if ValidateABN("1234567890") {
		t.Error("10-digit ABN accepted")
	}
	if ValidateABN("5182475355X") {
		t.Error("non-numeric ABN accepted")
	}
}
