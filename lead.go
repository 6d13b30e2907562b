package leadscout

import "context"

// Unavailable is the value of any lead field that could not be extracted.
const Unavailable = "Not available"

// Lead represents a single harvested candidate.
type Lead struct {
	Name       string `json:"name" yaml:"name"`
	Title      string `json:"title" yaml:"title"`
	Company    string `json:"company" yaml:"company"`
	Location   string `json:"location" yaml:"location"`
	ProfileURL string `json:"profileUrl" yaml:"profileUrl"`
	Email      string `json:"email" yaml:"email"`
	Phone      string `json:"phone" yaml:"phone"`
}

// HasProfile reports whether the lead carries a usable profile address.
func (l *Lead) HasProfile() bool {
	return usable(l.ProfileURL)
}

// RawLead is a lead as it comes out of extraction, before normalization.
// Title may still hold a "title at company" combination and fields may carry
// untrimmed whitespace.
type RawLead Lead

// NewRawLead returns a RawLead with every field set to Unavailable.
func NewRawLead() RawLead {
	return RawLead{
		Name:       Unavailable,
		Title:      Unavailable,
		Company:    Unavailable,
		Location:   Unavailable,
		ProfileURL: Unavailable,
		Email:      Unavailable,
		Phone:      Unavailable,
	}
}

// HasProfile reports whether the lead carries a usable profile address.
func (l *RawLead) HasProfile() bool {
	return usable(l.ProfileURL)
}

// Filter describes which leads a harvest collects.
type Filter struct {
	JobTitle string `json:"jobTitle"`
	Location string `json:"location"`
	MaxLeads int    `json:"maxLeads"`
}

// Validate returns an error if the filter contains invalid fields.
func (f *Filter) Validate() error {
	if f.JobTitle == "" {
		return Errorf(EINVALID, "job title required")
	}
	if f.MaxLeads <= 0 {
		return Errorf(EINVALID, "max leads must be positive")
	}
	return nil
}

// Contact holds the contact details recovered from a profile page.
type Contact struct {
	Email string
	Phone string
}

// Complete reports whether both contact fields are populated.
func (c Contact) Complete() bool {
	return c.Email != Unavailable && c.Phone != Unavailable
}

// LeadExtractor pulls raw leads out of a rendered search results page.
type LeadExtractor interface {
	// ExtractLeads returns the leads found in html in document order.
	// Containers without a valid name are skipped. fallbackLocation is used
	// when no location can be read from a container.
	ExtractLeads(html string, fallbackLocation string) ([]RawLead, error)
}

// ContactExtractor pulls contact details out of a rendered profile page.
type ContactExtractor interface {
	// ExtractContact returns the first email and phone found in html.
	// Missing fields are set to Unavailable.
	ExtractContact(html string) (Contact, error)
}

// LoginDetector detects login forms in rendered pages.
type LoginDetector interface {
	// HasLoginForm reports whether html contains a username or password input.
	HasLoginForm(html string) (bool, error)
}

// LocationResolver maps free-text locations to geographic search codes.
type LocationResolver interface {
	// Resolve returns the code for text. It never fails; unknown places
	// resolve to a default code.
	Resolve(text string) string
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

func usable(s string) bool {
	return s != "" && s != Unavailable && s != "N/A"
}
