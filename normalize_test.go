package leadscout_test

import (
	"testing"

	"github.com/fwojciec/leadscout"
	"github.com/stretchr/testify/assert"
)

func TestCleanTitleAndCompany_SplitOnSeparator(t *testing.T) {
	t.Parallel()

	raw := "Senior Engineer at Acme Corp"

	assert.Equal(t, "Senior Engineer", leadscout.CleanTitle(raw))
	assert.Equal(t, "Acme Corp", leadscout.CleanCompany(raw))
}

func TestCleanLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"San Francisco, California, United States, Extra", "San Francisco, California"},
		{"  Berlin,   Germany ", "Berlin, Germany"},
		{"London", "London"},
		{"Austin,,Texas", "Austin, Texas"},
		{"", leadscout.Unavailable},
		{"N/A", leadscout.Unavailable},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, leadscout.CleanLocation(tt.in))
		})
	}
}

func TestCleanName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jane Doe", leadscout.CleanName("  Jane \n\t Doe "))
	assert.Equal(t, leadscout.Unavailable, leadscout.CleanName("LinkedIn Member"))
	assert.Equal(t, leadscout.Unavailable, leadscout.CleanName("N/A"))
	assert.Equal(t, leadscout.Unavailable, leadscout.CleanName(""))
}

func TestCleanContact(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+1 415 555 0100", leadscout.CleanContact(" +1  415 555\n0100 "))
	assert.Equal(t, leadscout.Unavailable, leadscout.CleanContact(leadscout.Unavailable))
	assert.Equal(t, leadscout.Unavailable, leadscout.CleanContact("not available"))
}

func TestNormalizeLead_Idempotent(t *testing.T) {
	t.Parallel()

	raws := []leadscout.RawLead{
		{
			Name:       "  Jane   Doe ",
			Title:      "Senior Engineer at Acme Corp",
			Company:    "Senior Engineer at Acme Corp",
			Location:   "San Francisco, California, United States",
			ProfileURL: "https://www.linkedin.com/in/jane-doe",
			Email:      " jane@acme.io ",
			Phone:      leadscout.Unavailable,
		},
		{
			Name:     "LinkedIn Member",
			Title:    "VP at Foo at Bar",
			Company:  "VP at Foo at Bar",
			Location: ",,",
		},
		leadscout.NewRawLead(),
		{
			Name:     "Ana Lima",
			Title:    "at",
			Company:  "Founder  at  Startup  ",
			Location: "São Paulo , SP , Brazil",
			Email:    "N/A",
			Phone:    "(415) 555-0100",
		},
	}

	for _, raw := range raws {
		once := leadscout.NormalizeLead(raw)
		twice := leadscout.NormalizeLead(leadscout.RawLead(once))
		assert.Equal(t, once, twice, "normalizing %+v twice changed the result", raw)
	}
}

func TestNormalizeLeads_PreservesOrder(t *testing.T) {
	t.Parallel()

	leads := leadscout.NormalizeLeads([]leadscout.RawLead{
		{Name: "B One"},
		{Name: "A Two"},
	})

	assert.Len(t, leads, 2)
	assert.Equal(t, "B One", leads[0].Name)
	assert.Equal(t, "A Two", leads[1].Name)
	assert.Equal(t, leadscout.Unavailable, leads[0].Email)
}
