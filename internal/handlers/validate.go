package handlers

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for request fields.
const (
	maxLinkLen     = 2_000
	maxTitleLen    = 300
	maxNicknameLen = 50
	minPasswordLen = 8
	maxSummaryLen  = 5_000
	maxCollNameLen = 100
	maxCollDescLen = 1_000
)

// validateLink checks a saved URL and returns the first error found, or "".
func validateLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return "link is required"
	}
	if utf8.RuneCountInString(link) > maxLinkLen {
		return "link is too long (max 2,000 characters)"
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "link must be a valid http(s) URL"
	}
	return ""
}

// validateTitle checks a content title.
func validateTitle(title string) string {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	return ""
}

// validateCredentials checks registration inputs.
func validateCredentials(email, password, nickname string) string {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "a valid email is required"
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "password must be at least 8 characters"
	}
	if nickname != "" && utf8.RuneCountInString(nickname) > maxNicknameLen {
		return "nickname is too long (max 50 characters)"
	}
	return ""
}

// validateCollection checks collection inputs.
func validateCollection(name, description string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) > maxCollNameLen {
		return "name is too long (max 100 characters)"
	}
	if utf8.RuneCountInString(description) > maxCollDescLen {
		return "description is too long (max 1,000 characters)"
	}
	return ""
}
