package handlers

import (
	"strings"
	"testing"
)

func TestValidateLink(t *testing.T) {
	tests := []struct {
		name      string
		link      string
		wantError bool
	}{
		{"valid https", "https://example.com/article", false},
		{"valid http", "http://example.com", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"no scheme", "example.com/article", true},
		{"ftp scheme", "ftp://example.com/file", true},
		{"no host", "https://", true},
		{"too long", "https://example.com/" + strings.Repeat("a", 2_000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateLink(tt.link)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		nickname  string
		wantError bool
	}{
		{"valid", "a@b.com", "password123", "reader", false},
		{"empty nickname ok", "a@b.com", "password123", "", false},
		{"no at sign", "not-an-email", "password123", "", true},
		{"empty email", "", "password123", "", true},
		{"short password", "a@b.com", "short", "", true},
		{"long nickname", "a@b.com", "password123", strings.Repeat("x", 51), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateCredentials(tt.email, tt.password, tt.nickname)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateCollection(t *testing.T) {
	tests := []struct {
		name      string
		collName  string
		desc      string
		wantError bool
	}{
		{"valid", "Weekend Reads", "stuff for saturday", false},
		{"empty description ok", "Weekend Reads", "", false},
		{"empty name", "", "desc", true},
		{"whitespace name", "   ", "desc", true},
		{"name too long", strings.Repeat("a", 101), "", true},
		{"description too long", "name", strings.Repeat("a", 1_001), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateCollection(tt.collName, tt.desc)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	if msg := validateTitle(strings.Repeat("a", 301)); msg == "" {
		t.Error("expected an error for a 301-rune title")
	}
	if msg := validateTitle("A normal title"); msg != "" {
		t.Errorf("unexpected error: %s", msg)
	}
	if msg := validateTitle(""); msg != "" {
		t.Errorf("empty title should be allowed: %s", msg)
	}
}
