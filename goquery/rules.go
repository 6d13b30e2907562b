package goquery

import (
	_ "embed"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/leadscout"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// Rules is a versioned set of selector-fallback chains for every extracted field.
type Rules struct {
	Version          string      `yaml:"version"`
	BaseURL          string      `yaml:"baseURL"`
	OwnDomain        string      `yaml:"ownDomain"`
	Brand            string      `yaml:"brand"`
	Placeholders     []string    `yaml:"placeholders"`
	ResultsContainer string      `yaml:"resultsContainer"`
	NextButton       string      `yaml:"nextButton"`
	LoginInputs      []string    `yaml:"loginInputs"`
	MinContainerText int         `yaml:"minContainerText"`
	Containers       []string    `yaml:"containers"`
	Name             []FieldRule `yaml:"name"`
	Profile          []FieldRule `yaml:"profile"`
	Title            []FieldRule `yaml:"title"`
	Location         []FieldRule `yaml:"location"`
	ContactSurfaces  []string    `yaml:"contactSurfaces"`
}

// FieldRule is one step of a selector-fallback chain.
type FieldRule struct {
	// Selector is evaluated relative to the result container; the first
	// matching element is used.
	Selector string `yaml:"selector"`

	// Attr names the attribute to read. Empty reads the element text.
	Attr string `yaml:"attr,omitempty"`

	// Validate lists the checks the value must pass: nonempty,
	// not-placeholder, two-words, no-brand, min:N.
	Validate []string `yaml:"validate"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() *Rules {
	rules, err := LoadRules(strings.NewReader(string(defaultRules)))
	if err != nil {
		panic(fmt.Sprintf("embedded rules: %v", err))
	}
	return rules
}

// LoadRules decodes and validates a YAML rule set.
func LoadRules(r io.Reader) (*Rules, error) {
	var rules Rules
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil {
		return nil, leadscout.Errorf(leadscout.EINVALID, "failed to parse rules: %v", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// LoadRulesFile loads a YAML rule set from path.
func LoadRulesFile(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rules: %w", err)
	}
	defer f.Close()
	return LoadRules(f)
}

// Validate returns an error if the rule set cannot drive an extraction.
func (r *Rules) Validate() error {
	if len(r.Containers) == 0 {
		return leadscout.Errorf(leadscout.EINVALID, "rules: container selectors required")
	}
	if len(r.Name) == 0 {
		return leadscout.Errorf(leadscout.EINVALID, "rules: name rules required")
	}
	if u, err := url.Parse(r.BaseURL); err != nil || !u.IsAbs() {
		return leadscout.Errorf(leadscout.EINVALID, "rules: absolute base URL required")
	}
	for field, chain := range map[string][]FieldRule{
		"name":     r.Name,
		"profile":  r.Profile,
		"title":    r.Title,
		"location": r.Location,
	} {
		for _, rule := range chain {
			if rule.Selector == "" {
				return leadscout.Errorf(leadscout.EINVALID, "rules: %s: empty selector", field)
			}
			for _, name := range rule.Validate {
				if _, err := r.check(name); err != nil {
					return leadscout.Errorf(leadscout.EINVALID, "rules: %s: %v", field, err)
				}
			}
		}
	}
	return nil
}

// check resolves a validator name into a predicate.
func (r *Rules) check(name string) (func(string) bool, error) {
	switch {
	case name == "nonempty":
		return func(v string) bool { return v != "" }, nil
	case name == "not-placeholder":
		return func(v string) bool {
			for _, p := range r.Placeholders {
				if strings.EqualFold(v, p) {
					return false
				}
			}
			return true
		}, nil
	case name == "two-words":
		return func(v string) bool { return len(strings.Fields(v)) >= 2 }, nil
	case name == "no-brand":
		return func(v string) bool { return r.Brand == "" || !strings.Contains(v, r.Brand) }, nil
	case strings.HasPrefix(name, "min:"):
		n, err := strconv.Atoi(strings.TrimPrefix(name, "min:"))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid validator %q", name)
		}
		return func(v string) bool { return utf8.RuneCountInString(v) >= n }, nil
	default:
		return nil, fmt.Errorf("unknown validator %q", name)
	}
}
