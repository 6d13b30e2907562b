// Package bloom remembers which profiles earlier runs already harvested.
package bloom

import (
	"context"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.RunService    = (*ProfileIndex)(nil)
	_ leadscout.ContactLookup = (*ProfileIndex)(nil)
)

// ProfileIndex wraps a RunService and keeps a Bloom filter of every
// archived profile URL. Profiles the filter has never seen are answered
// without touching the archive; possible matches are confirmed against it.
type ProfileIndex struct {
	runs     leadscout.RunService
	contacts leadscout.ContactArchive

	mu sync.RWMutex
	f  *bloom.BloomFilter
}

// NewProfileIndex returns an empty index sized for n profiles with the
// given false positive rate.
func NewProfileIndex(runs leadscout.RunService, contacts leadscout.ContactArchive, n uint, fpRate float64) *ProfileIndex {
	if n == 0 {
		n = 1
	}
	return &ProfileIndex{
		runs:     runs,
		contacts: contacts,
		f:        bloom.NewWithEstimates(n, fpRate),
	}
}

// Load adds every archived profile URL to the filter and returns how many
// were read.
func (x *ProfileIndex) Load(ctx context.Context) (int, error) {
	urls, err := x.contacts.ProfileURLs(ctx)
	if err != nil {
		return 0, err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for _, u := range urls {
		x.f.AddString(u)
	}
	return len(urls), nil
}

// MayContain reports whether profileURL may have been archived. False
// means it definitely was not.
func (x *ProfileIndex) MayContain(profileURL string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.f.TestString(profileURL)
}

// LookupContact returns the archived contact of profileURL.
func (x *ProfileIndex) LookupContact(ctx context.Context, profileURL string) (leadscout.Contact, bool, error) {
	if !x.MayContain(profileURL) {
		return leadscout.Contact{}, false, nil
	}

	c, err := x.contacts.FindContactByProfileURL(ctx, profileURL)
	if leadscout.ErrorCode(err) == leadscout.ENOTFOUND {
		return leadscout.Contact{}, false, nil
	} else if err != nil {
		return leadscout.Contact{}, false, err
	}
	return c, true, nil
}

// CreateRun archives run and indexes the profiles of its leads.
func (x *ProfileIndex) CreateRun(ctx context.Context, run *leadscout.Run) error {
	if err := x.runs.CreateRun(ctx, run); err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	for i := range run.Leads {
		if run.Leads[i].HasProfile() {
			x.f.AddString(run.Leads[i].ProfileURL)
		}
	}
	return nil
}

func (x *ProfileIndex) FindRunByID(ctx context.Context, id string) (*leadscout.Run, error) {
	return x.runs.FindRunByID(ctx, id)
}

func (x *ProfileIndex) FindRuns(ctx context.Context, filter leadscout.RunFilter) ([]*leadscout.Run, error) {
	return x.runs.FindRuns(ctx, filter)
}
