package goquery

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/contact"
)

// Ensure Extractor implements the extraction interfaces.
var (
	_ leadscout.LeadExtractor    = (*Extractor)(nil)
	_ leadscout.ContactExtractor = (*Extractor)(nil)
	_ leadscout.LoginDetector    = (*Extractor)(nil)
)

// Extractor reads leads and contact details from page snapshots using a
// rule set of selector-fallback chains.
type Extractor struct {
	rules   *Rules
	base    *url.URL
	matcher *contact.Matcher

	name     []compiledRule
	profile  []compiledRule
	title    []compiledRule
	location []compiledRule
}

type compiledRule struct {
	selector string
	attr     string
	checks   []func(string) bool
}

// NewExtractor creates an Extractor from rules. Nil rules use DefaultRules.
func NewExtractor(rules *Rules) (*Extractor, error) {
	if rules == nil {
		rules = DefaultRules()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(rules.BaseURL)
	if err != nil {
		return nil, leadscout.Errorf(leadscout.EINVALID, "invalid base URL: %v", err)
	}
	e := &Extractor{
		rules:   rules,
		base:    base,
		matcher: &contact.Matcher{OwnDomain: rules.OwnDomain},
	}
	for _, c := range []struct {
		dst   *[]compiledRule
		chain []FieldRule
	}{
		{&e.name, rules.Name},
		{&e.profile, rules.Profile},
		{&e.title, rules.Title},
		{&e.location, rules.Location},
	} {
		compiled, err := rules.compile(c.chain)
		if err != nil {
			return nil, err
		}
		*c.dst = compiled
	}
	return e, nil
}

// Rules returns the rule set the extractor was built from.
func (e *Extractor) Rules() *Rules {
	return e.rules
}

// ExtractLeads returns one raw lead per result container that yields a
// valid name. Containers with too little text are skipped, and leads whose
// profile URL repeats within the page are dropped.
func (e *Extractor) ExtractLeads(html string, fallbackLocation string) ([]leadscout.RawLead, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, leadscout.Errorf(leadscout.EINVALID, "failed to parse HTML: %v", err)
	}

	var containers *goquery.Selection
	for _, sel := range e.rules.Containers {
		containers = doc.Find(sel)
		if containers.Length() > 0 {
			break
		}
	}

	var leads []leadscout.RawLead
	seen := make(map[string]bool)
	containers.Each(func(_ int, s *goquery.Selection) {
		if utf8.RuneCountInString(collapse(s.Text())) < e.rules.MinContainerText {
			return
		}
		name, ok := first(s, e.name)
		if !ok {
			return
		}

		lead := leadscout.NewRawLead()
		lead.Name = name

		if href, ok := first(s, e.profile); ok {
			if profile := e.resolveProfile(href); profile != "" {
				lead.ProfileURL = profile
			}
		}
		if lead.HasProfile() {
			if seen[lead.ProfileURL] {
				return
			}
			seen[lead.ProfileURL] = true
		}

		if headline, ok := first(s, e.title); ok {
			title, company, found := strings.Cut(headline, " at ")
			lead.Title = strings.TrimSpace(title)
			if found && strings.TrimSpace(company) != "" {
				lead.Company = strings.TrimSpace(company)
			}
		}

		lead.Location = fallbackOr(fallbackLocation)
		if loc, ok := first(s, e.location); ok {
			loc, _, _ = strings.Cut(loc, "·")
			if loc = strings.TrimSpace(loc); loc != "" {
				lead.Location = loc
			}
		}

		leads = append(leads, lead)
	})

	return leads, nil
}

// ExtractContact reads contact details from the page's contact surfaces
// first, then searches the whole page text for whatever is still missing.
func (e *Extractor) ExtractContact(html string) (leadscout.Contact, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return leadscout.Contact{}, leadscout.Errorf(leadscout.EINVALID, "failed to parse HTML: %v", err)
	}

	c := leadscout.Contact{Email: leadscout.Unavailable, Phone: leadscout.Unavailable}
	for _, sel := range e.rules.ContactSurfaces {
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := s.Text()
			if c.Email == leadscout.Unavailable {
				if email, ok := contact.FirstEmail(text); ok {
					c.Email = email
				}
			}
			if c.Phone == leadscout.Unavailable {
				if phone, ok := contact.FirstPhone(text); ok {
					c.Phone = phone
				}
			}
			return !c.Complete()
		})
		if c.Complete() {
			return c, nil
		}
	}

	body := doc.Find("body").Text()
	if c.Email == leadscout.Unavailable {
		if email, ok := e.matcher.Email(body); ok {
			c.Email = email
		}
	}
	if c.Phone == leadscout.Unavailable {
		if phone, ok := e.matcher.Phone(body); ok {
			c.Phone = phone
		}
	}
	return c, nil
}

// HasLoginForm reports whether html contains any of the login inputs.
func (e *Extractor) HasLoginForm(html string) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, leadscout.Errorf(leadscout.EINVALID, "failed to parse HTML: %v", err)
	}
	for _, sel := range e.rules.LoginInputs {
		if doc.Find(sel).Length() > 0 {
			return true, nil
		}
	}
	return false, nil
}

// resolveProfile makes href absolute against the base URL and strips its
// query and fragment. Returns empty string for unparseable links.
func (e *Extractor) resolveProfile(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := e.base.ResolveReference(ref)
	resolved.RawQuery = ""
	resolved.Fragment = ""
	return resolved.String()
}

func (r *Rules) compile(chain []FieldRule) ([]compiledRule, error) {
	compiled := make([]compiledRule, 0, len(chain))
	for _, rule := range chain {
		cr := compiledRule{selector: rule.Selector, attr: rule.Attr}
		for _, name := range rule.Validate {
			check, err := r.check(name)
			if err != nil {
				return nil, leadscout.Errorf(leadscout.EINVALID, "rules: %v", err)
			}
			cr.checks = append(cr.checks, check)
		}
		compiled = append(compiled, cr)
	}
	return compiled, nil
}

// first walks a fallback chain and returns the first value that passes
// every check of its rule.
func first(s *goquery.Selection, chain []compiledRule) (string, bool) {
	for _, rule := range chain {
		el := s.Find(rule.selector).First()
		if el.Length() == 0 {
			continue
		}
		var value string
		if rule.attr != "" {
			value, _ = el.Attr(rule.attr)
			value = strings.TrimSpace(value)
		} else {
			value = collapse(el.Text())
		}
		if passes(value, rule.checks) {
			return value, true
		}
	}
	return "", false
}

func passes(value string, checks []func(string) bool) bool {
	for _, check := range checks {
		if !check(value) {
			return false
		}
	}
	return true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fallbackOr(location string) string {
	if location = strings.TrimSpace(location); location != "" {
		return location
	}
	return leadscout.Unavailable
}
