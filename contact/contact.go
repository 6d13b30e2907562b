// Package contact finds email addresses and phone numbers in plain text.
// It has no browser dependency and works on any extracted page text.
package contact

import (
	"regexp"
	"strings"

	"github.com/mcnijman/go-emailaddress"
	"golang.org/x/net/publicsuffix"
)

// DefaultMinPhoneDigits is the number of digits a phone number found in free
// page text must contain.
const DefaultMinPhoneDigits = 10

var (
	phoneRegexp    = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	nonDigitRegexp = regexp.MustCompile(`\D`)
)

// noReplyMarkers identify automated sender addresses.
var noReplyMarkers = []string{"no-reply", "noreply", "donotreply"}

// Emails returns the email-shaped substrings of text in order of appearance.
func Emails(text string) []string {
	found := emailaddress.Find([]byte(text), false)
	emails := make([]string, 0, len(found))
	for _, e := range found {
		emails = append(emails, e.String())
	}
	return emails
}

// Phones returns the phone-shaped substrings of text in order of appearance.
func Phones(text string) []string {
	return phoneRegexp.FindAllString(text, -1)
}

// FirstEmail returns the first email-shaped substring of text.
func FirstEmail(text string) (string, bool) {
	if emails := Emails(text); len(emails) > 0 {
		return emails[0], true
	}
	return "", false
}

// FirstPhone returns the first phone-shaped substring of text.
func FirstPhone(text string) (string, bool) {
	if m := phoneRegexp.FindString(text); m != "" {
		return m, true
	}
	return "", false
}

// Digits returns the number of decimal digits in s.
func Digits(s string) int {
	return len(nonDigitRegexp.ReplaceAllString(s, ""))
}

// Matcher picks plausible contact details out of unstructured page text,
// which also contains the site's own addresses and stray numbers.
type Matcher struct {
	// OwnDomain is the registrable domain of the site being scraped.
	// Addresses on it (or its subdomains) are rejected.
	OwnDomain string

	// MinPhoneDigits is the minimum digit count of an accepted phone.
	// Zero means DefaultMinPhoneDigits.
	MinPhoneDigits int
}

// Email returns the first acceptable email address in text.
func (m *Matcher) Email(text string) (string, bool) {
	for _, e := range Emails(text) {
		if m.acceptEmail(e) {
			return e, true
		}
	}
	return "", false
}

// Phone returns the first phone number in text with enough digits.
func (m *Matcher) Phone(text string) (string, bool) {
	min := m.MinPhoneDigits
	if min <= 0 {
		min = DefaultMinPhoneDigits
	}
	for _, p := range Phones(text) {
		if Digits(p) >= min {
			return p, true
		}
	}
	return "", false
}

func (m *Matcher) acceptEmail(email string) bool {
	lower := strings.ToLower(email)
	for _, marker := range noReplyMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	if m.OwnDomain == "" {
		return true
	}
	_, domain, ok := strings.Cut(lower, "@")
	if !ok {
		return false
	}
	return registrableDomain(domain) != registrableDomain(strings.ToLower(m.OwnDomain))
}

// registrableDomain returns the eTLD+1 of host, or host itself when it has none.
func registrableDomain(host string) string {
	if d, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return d
	}
	return host
}
