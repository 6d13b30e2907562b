package main_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/leadscout"
	main "github.com/fwojciec/leadscout/cmd/leadscout"
	"github.com/fwojciec/leadscout/geo"
	"github.com/fwojciec/leadscout/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext returns a background context for tests.
func testContext() context.Context {
	return context.Background()
}

func newDeps(sessions leadscout.SessionService, runs leadscout.RunService) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:       testContext(),
		Stdin:     strings.NewReader("\n"),
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    slog.New(slog.DiscardHandler),
		Sessions:  sessions,
		Runs:      runs,
		Locations: geo.NewResolver(nil, ""),
	}, stdout, stderr
}

var jane = leadscout.Lead{
	Name:       "Jane Doe",
	Title:      "Engineer",
	Company:    "Acme",
	Location:   "Berlin",
	ProfileURL: "https://www.linkedin.com/in/jane",
	Email:      "jane@acme.com",
	Phone:      leadscout.Unavailable,
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires a command", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(testContext(), nil, strings.NewReader(""), stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "harvest")
	})

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(testContext(), []string{"--help"}, strings.NewReader(""), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "resolve")
	})

	t.Run("resolves locations without opening the archive", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		m := main.NewMain()
		err := m.Run(testContext(), []string{"resolve", "Austin, TX"}, strings.NewReader(""), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "90000042\n", stdout.String())
		assert.Nil(t, m.DB)
	})

	t.Run("harvests with injected services", func(t *testing.T) {
		t.Parallel()

		var stopped bool
		var archived *leadscout.Run
		m := main.NewMain()
		m.Sessions = &mock.SessionService{
			HarvestFn: func(ctx context.Context, filter leadscout.Filter, events chan<- leadscout.Event) ([]leadscout.Lead, error) {
				assert.Equal(t, leadscout.Filter{JobTitle: "Engineer", Location: "Berlin", MaxLeads: 3}, filter)
				return []leadscout.Lead{jane}, nil
			},
			StopFn: func() error {
				stopped = true
				return nil
			},
		}
		m.Runs = &mock.RunService{
			CreateRunFn: func(ctx context.Context, run *leadscout.Run) error {
				run.ID = "run-1"
				archived = run
				return nil
			},
		}
		stdout := &bytes.Buffer{}

		err := m.Run(testContext(), []string{"harvest", "Engineer", "-l", "Berlin", "-n", "3", "--skip-wait"},
			strings.NewReader(""), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Jane Doe,Engineer,Acme,Berlin")
		assert.True(t, stopped)
		require.NotNil(t, archived)
		assert.Equal(t, "cli", archived.SessionID)
	})

	t.Run("rejects max pages above the page limit", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.Sessions = &mock.SessionService{
			HarvestFn: func(ctx context.Context, filter leadscout.Filter, events chan<- leadscout.Event) ([]leadscout.Lead, error) {
				t.Fatal("harvest started")
				return nil, nil
			},
			StopFn: func() error { return nil },
		}
		m.Runs = &mock.RunService{}
		err := m.Run(testContext(), []string{"--max-pages", "6", "harvest", "Engineer", "--skip-wait"}, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "--max-pages must be between 0 and 5")
	})

	t.Run("rejects a missing rules file", func(t *testing.T) {
		t.Parallel()

		err := main.NewMain().Run(testContext(), []string{"--rules", "/nonexistent/rules.yaml", "resolve", "Berlin"},
			strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})
}

func TestCmdResolve(t *testing.T) {
	t.Parallel()

	deps, stdout, _ := newDeps(nil, nil)
	cmd := &main.ResolveCmd{Location: "nowhere at all"}

	require.NoError(t, cmd.Run(deps))
	assert.Equal(t, geo.DefaultCode+"\n", stdout.String())
}

func TestCmdHarvest_LoginWaitHonoursTimeout(t *testing.T) {
	t.Parallel()

	sessions := &mock.SessionService{
		BeginManualAuthFn: func(ctx context.Context) (*leadscout.AuthResult, error) {
			return &leadscout.AuthResult{Message: "Log in", ManualMode: true}, nil
		},
		HarvestFn: func(ctx context.Context, filter leadscout.Filter, events chan<- leadscout.Event) ([]leadscout.Lead, error) {
			t.Error("harvest must not start before login")
			return nil, nil
		},
	}
	deps, _, stderr := newDeps(sessions, nil)
	deps.Stdin = blockingReader{}
	cmd := &main.HarvestCmd{Title: "Engineer", Max: 1, Format: "csv", Timeout: 20 * time.Millisecond}

	err := cmd.Run(deps)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, stderr.String(), "Log in")
}

// blockingReader never returns.
type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
