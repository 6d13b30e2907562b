package leadscout

import "strings"

// titleSeparator joins a job title and a company in headline text.
const titleSeparator = " at "

// placeholderNames are names the search interface shows for members outside
// the viewer's network.
var placeholderNames = []string{"LinkedIn Member"}

// NormalizeLead canonicalizes every field of a raw lead.
// It is idempotent: normalizing an already normalized lead changes nothing.
func NormalizeLead(raw RawLead) Lead {
	return Lead{
		Name:       CleanName(raw.Name),
		Title:      CleanTitle(raw.Title),
		Company:    CleanCompany(raw.Company),
		Location:   CleanLocation(raw.Location),
		ProfileURL: CleanContact(raw.ProfileURL),
		Email:      CleanContact(raw.Email),
		Phone:      CleanContact(raw.Phone),
	}
}

// NormalizeLeads normalizes each lead, preserving order.
func NormalizeLeads(raws []RawLead) []Lead {
	leads := make([]Lead, 0, len(raws))
	for _, raw := range raws {
		leads = append(leads, NormalizeLead(raw))
	}
	return leads
}

// CleanName collapses whitespace. Placeholder names become Unavailable.
func CleanName(name string) string {
	name = collapse(name)
	for _, p := range placeholderNames {
		if strings.EqualFold(name, p) {
			return Unavailable
		}
	}
	return orUnavailable(name)
}

// CleanTitle collapses whitespace and keeps the part before a residual " at ".
func CleanTitle(title string) string {
	title = collapse(title)
	if before, _, ok := strings.Cut(title, titleSeparator); ok {
		title = strings.TrimSpace(before)
	}
	return orUnavailable(title)
}

// CleanCompany collapses whitespace and keeps the segment after a residual " at ".
func CleanCompany(company string) string {
	company = collapse(company)
	if parts := strings.Split(company, titleSeparator); len(parts) > 1 {
		company = strings.TrimSpace(parts[1])
	}
	return orUnavailable(company)
}

// CleanLocation collapses whitespace and keeps at most the first two
// comma-separated segments.
func CleanLocation(location string) string {
	location = collapse(location)
	var parts []string
	for _, p := range strings.Split(location, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return orUnavailable(strings.Join(parts, ", "))
}

// CleanContact collapses whitespace, passing the Unavailable sentinel through.
func CleanContact(contact string) string {
	return orUnavailable(collapse(contact))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orUnavailable(s string) string {
	if !usable(s) || strings.EqualFold(s, Unavailable) {
		return Unavailable
	}
	return s
}
