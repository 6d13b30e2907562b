package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/fs"
	"golang.org/x/sync/errgroup"
)

// Run executes the harvest command. Prompts and progress go to stderr so
// that stdout carries only the leads.
func (c *HarvestCmd) Run(deps *Dependencies) error {
	filter := leadscout.Filter{JobTitle: c.Title, Location: c.Location, MaxLeads: c.Max}
	if err := filter.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}

	var exporter *fs.Exporter
	if c.Out != "" {
		var err error
		if exporter, err = fs.NewExporter(c.Out); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
			return err
		}
	}

	ctx := deps.Ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if !c.SkipWait {
		res, err := deps.Sessions.BeginManualAuth(ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
			return err
		}
		fmt.Fprintln(deps.Stderr, res.Message)
		fmt.Fprint(deps.Stderr, "Press Enter once you are logged in... ")
		if err := waitForEnter(ctx, deps.Stdin); err != nil {
			return err
		}
	}

	started := time.Now()
	leads, harvestErr := harvestWithProgress(ctx, deps.Sessions, filter, deps.Stderr)
	archive(deps, leadscout.NewRun(c.Session, filter, leads, harvestErr, started, time.Now()))

	if harvestErr != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(harvestErr))
		if len(leads) == 0 {
			return harvestErr
		}
		fmt.Fprintf(deps.Stderr, "Writing %d leads collected before the failure.\n", len(leads))
	}

	if err := c.write(deps, leads); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}
	if exporter != nil {
		if err := exporter.Export(ctx, leads); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stderr, "Wrote %d leads to %s\n", len(leads), exporter.Path())
	}
	return harvestErr
}

func (c *HarvestCmd) write(deps *Dependencies, leads []leadscout.Lead) error {
	if c.Out != "" {
		return nil
	}
	buf, err := fs.Encode(fs.Format(c.Format), leads)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(buf)
	return err
}

// harvestWithProgress runs the harvest while printing its events.
func harvestWithProgress(ctx context.Context, sessions leadscout.SessionService, filter leadscout.Filter, w io.Writer) ([]leadscout.Lead, error) {
	events := make(chan leadscout.Event, 16)
	var leads []leadscout.Lead

	var g errgroup.Group
	g.Go(func() error {
		for e := range events {
			fmt.Fprintf(w, "[%s] %s\n", e.Type, e.Message)
		}
		return nil
	})
	g.Go(func() error {
		defer close(events)
		var err error
		leads, err = sessions.Harvest(ctx, filter, events)
		return err
	})
	err := g.Wait()
	return leads, err
}

// archive stores run when an archive is configured. Failures are logged
// and otherwise ignored.
func archive(deps *Dependencies, run *leadscout.Run) {
	if deps.Runs == nil {
		return
	}
	if err := deps.Runs.CreateRun(context.WithoutCancel(deps.Ctx), run); err != nil {
		deps.Logger.Error("archiving run", "err", err)
		return
	}
	fmt.Fprintf(deps.Stderr, "Archived run %s\n", run.ID)
}

// waitForEnter blocks until a line is read from r or ctx is done.
func waitForEnter(ctx context.Context, r io.Reader) error {
	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(r).ReadString('\n')
		if err == io.EOF {
			err = nil
		}
		done <- err
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
