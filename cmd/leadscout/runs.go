package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/fs"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		return fmt.Errorf("the run archive is disabled")
	}

	filter := leadscout.RunFilter{Limit: c.Limit}
	if c.Session != "" {
		filter.SessionID = &c.Session
	}
	if c.Profile != "" {
		filter.ProfileURL = &c.Profile
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'leadscout harvest' or 'leadscout serve' to create one.")
		return nil
	}

	tw := tabwriter.NewWriter(deps.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tLEADS\tTITLE\tLOCATION")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Status, r.LeadCount, r.Filter.JobTitle, r.Filter.Location)
	}
	return tw.Flush()
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	if deps.Runs == nil {
		return fmt.Errorf("the run archive is disabled")
	}

	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", leadscout.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stderr, "%s  %s  %d leads  %q in %q\n", run.ID, run.Status, run.LeadCount, run.Filter.JobTitle, run.Filter.Location)
	if run.Error != "" {
		fmt.Fprintf(deps.Stderr, "error: %s\n", run.Error)
	}

	buf, err := fs.Encode(fs.Format(c.Format), run.Leads)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(buf)
	return err
}
