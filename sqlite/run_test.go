package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func testLeads() []leadscout.Lead {
	return []leadscout.Lead{
		{
			Name:       "Jane Doe",
			Title:      "Senior Engineer",
			Company:    "Acme Corp",
			Location:   "Austin, Texas",
			ProfileURL: "https://www.linkedin.com/in/jane-doe",
			Email:      "jane@acme.example",
			Phone:      leadscout.Unavailable,
		},
		{
			Name:       "John Roe",
			Title:      "Product Manager",
			Company:    leadscout.Unavailable,
			Location:   "Texas",
			ProfileURL: leadscout.Unavailable,
			Email:      leadscout.Unavailable,
			Phone:      leadscout.Unavailable,
		},
	}
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("archives run with generated ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()

		run := &leadscout.Run{
			SessionID: "s1",
			Filter:    leadscout.Filter{JobTitle: "Engineer", Location: "Texas", MaxLeads: 10},
			Status:    leadscout.RunCompleted,
			Leads:     testLeads(),
		}

		require.NoError(t, svc.CreateRun(ctx, run))

		assert.NotEmpty(t, run.ID)
		assert.Equal(t, 2, run.LeadCount)
		assert.False(t, run.StartedAt.IsZero())
		assert.False(t, run.FinishedAt.IsZero())
	})

	t.Run("returns error for invalid run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.CreateRun(context.Background(), &leadscout.Run{Status: leadscout.RunCompleted})

		require.Error(t, err)
		assert.Equal(t, leadscout.EINVALID, leadscout.ErrorCode(err))
	})
}

func TestRunService_FindRunByID(t *testing.T) {
	t.Parallel()

	t.Run("returns run with leads in order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()
		started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

		run := &leadscout.Run{
			SessionID:  "s1",
			Filter:     leadscout.Filter{JobTitle: "Engineer", Location: "Texas", MaxLeads: 10},
			Status:     leadscout.RunCompleted,
			Leads:      testLeads(),
			StartedAt:  started,
			FinishedAt: started.Add(time.Minute),
		}
		require.NoError(t, svc.CreateRun(ctx, run))

		found, err := svc.FindRunByID(ctx, run.ID)

		require.NoError(t, err)
		assert.Equal(t, run.ID, found.ID)
		assert.Equal(t, "s1", found.SessionID)
		assert.Equal(t, run.Filter, found.Filter)
		assert.Equal(t, leadscout.RunCompleted, found.Status)
		assert.Equal(t, testLeads(), found.Leads)
		assert.Equal(t, 2, found.LeadCount)
		assert.True(t, started.Equal(found.StartedAt))
		assert.True(t, started.Add(time.Minute).Equal(found.FinishedAt))
	})

	t.Run("keeps failed run error", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		ctx := context.Background()

		run := &leadscout.Run{
			Filter: leadscout.Filter{JobTitle: "Engineer", MaxLeads: 5},
			Status: leadscout.RunFailed,
			Error:  "Please log in first.",
		}
		require.NoError(t, svc.CreateRun(ctx, run))

		found, err := svc.FindRunByID(ctx, run.ID)

		require.NoError(t, err)
		assert.Equal(t, leadscout.RunFailed, found.Status)
		assert.Equal(t, "Please log in first.", found.Error)
		assert.Empty(t, found.Leads)
	})

	t.Run("returns not found for missing run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		_, err := svc.FindRunByID(context.Background(), "missing")

		require.Error(t, err)
		assert.Equal(t, leadscout.ENOTFOUND, leadscout.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	seed := func(t *testing.T, svc *sqlite.RunService) []*leadscout.Run {
		t.Helper()
		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		var runs []*leadscout.Run
		for i, session := range []string{"s1", "s2", "s1"} {
			run := &leadscout.Run{
				SessionID: session,
				Filter:    leadscout.Filter{JobTitle: "Engineer", MaxLeads: 10},
				Status:    leadscout.RunCompleted,
				StartedAt: base.Add(time.Duration(i) * time.Hour),
			}
			if i == 1 {
				run.Leads = testLeads()
			}
			require.NoError(t, svc.CreateRun(context.Background(), run))
			runs = append(runs, run)
		}
		return runs
	}

	t.Run("returns newest first without leads", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		runs := seed(t, svc)

		found, err := svc.FindRuns(context.Background(), leadscout.RunFilter{})

		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, runs[2].ID, found[0].ID)
		assert.Equal(t, runs[0].ID, found[2].ID)
		assert.Nil(t, found[1].Leads)
		assert.Equal(t, 2, found[1].LeadCount)
	})

	t.Run("filters by session", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		seed(t, svc)
		session := "s1"

		found, err := svc.FindRuns(context.Background(), leadscout.RunFilter{SessionID: &session})

		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("filters by profile", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		runs := seed(t, svc)
		profile := "https://www.linkedin.com/in/jane-doe"

		found, err := svc.FindRuns(context.Background(), leadscout.RunFilter{ProfileURL: &profile})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, runs[1].ID, found[0].ID)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		runs := seed(t, svc)

		found, err := svc.FindRuns(context.Background(), leadscout.RunFilter{Limit: 1, Offset: 1})

		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, runs[1].ID, found[0].ID)
	})

	t.Run("returns empty slice when nothing matches", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		found, err := svc.FindRuns(context.Background(), leadscout.RunFilter{})

		require.NoError(t, err)
		assert.NotNil(t, found)
		assert.Empty(t, found)
	})
}

func TestLeadKey(t *testing.T) {
	t.Parallel()

	leads := testLeads()

	assert.Equal(t, sqlite.LeadKey(leads[0]), sqlite.LeadKey(leadscout.Lead{ProfileURL: leads[0].ProfileURL}))
	assert.NotEqual(t, sqlite.LeadKey(leads[0]), sqlite.LeadKey(leads[1]))
	assert.Equal(t, sqlite.LeadKey(leads[1]), sqlite.LeadKey(leadscout.Lead{
		Name:       "john roe",
		Company:    leadscout.Unavailable,
		ProfileURL: leadscout.Unavailable,
	}))
}

func TestRunService_FindContactByProfileURL(t *testing.T) {
	t.Parallel()

	const profile = "https://www.linkedin.com/in/jane-doe"

	archive := func(t *testing.T, svc *sqlite.RunService, started time.Time, email, phone string) {
		t.Helper()
		run := &leadscout.Run{
			SessionID: "s1",
			Filter:    leadscout.Filter{JobTitle: "Engineer", MaxLeads: 10},
			Status:    leadscout.RunCompleted,
			StartedAt: started,
			Leads: []leadscout.Lead{{
				Name:       "Jane Doe",
				Title:      "Engineer",
				Company:    "Acme Corp",
				Location:   "Texas",
				ProfileURL: profile,
				Email:      email,
				Phone:      phone,
			}},
		}
		require.NoError(t, svc.CreateRun(context.Background(), run))
	}

	t.Run("returns the newest contact with a found field", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		archive(t, svc, base, "old@acme.example", leadscout.Unavailable)
		archive(t, svc, base.Add(time.Hour), "jane@acme.example", "+1 512 555 0100")
		archive(t, svc, base.Add(2*time.Hour), leadscout.Unavailable, leadscout.Unavailable)

		c, err := svc.FindContactByProfileURL(context.Background(), profile)

		require.NoError(t, err)
		assert.Equal(t, leadscout.Contact{Email: "jane@acme.example", Phone: "+1 512 555 0100"}, c)
	})

	t.Run("returns ENOTFOUND when no contact was found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		archive(t, svc, time.Time{}, leadscout.Unavailable, leadscout.Unavailable)

		_, err := svc.FindContactByProfileURL(context.Background(), profile)

		require.Error(t, err)
		assert.Equal(t, leadscout.ENOTFOUND, leadscout.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for unknown profile", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		_, err := svc.FindContactByProfileURL(context.Background(), profile)

		assert.Equal(t, leadscout.ENOTFOUND, leadscout.ErrorCode(err))
	})
}

func TestRunService_ProfileURLs(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewRunService(setupTestDB(t))
	ctx := context.Background()
	for range 2 {
		require.NoError(t, svc.CreateRun(ctx, &leadscout.Run{
			SessionID: "s1",
			Filter:    leadscout.Filter{JobTitle: "Engineer", MaxLeads: 10},
			Status:    leadscout.RunCompleted,
			Leads:     testLeads(),
		}))
	}

	urls, err := svc.ProfileURLs(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.linkedin.com/in/jane-doe"}, urls)
}
