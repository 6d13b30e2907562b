package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/leadscout"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Sessions  leadscout.SessionService
	Runs      leadscout.RunService // nil when the archive is disabled
	Locations leadscout.LocationResolver
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB          string  `env:"LEADSCOUT_DB" default:"${default_db}" help:"Run archive database path"`
	NoArchive   bool    `help:"Do not archive harvest runs"`
	NoReuse     bool    `help:"Visit every profile, even those whose contact an archived run already found"`
	Headless    bool    `env:"LEADSCOUT_HEADLESS" help:"Run the browser without a window"`
	UserDataDir string  `env:"LEADSCOUT_USER_DATA_DIR" default:"${default_user_data_dir}" help:"Browser profile directory; keeps the login across restarts"`
	Rules       string  `env:"LEADSCOUT_RULES" type:"existingfile" help:"YAML selector rules replacing the built-in ones"`
	MaxPages    int     `help:"Result pages visited per harvest, at most 5 (0 keeps the default)"`
	ProfileRate float64 `default:"0.5" help:"Profile visits per second"`
	Verbose     bool    `short:"v" help:"Log browser calls"`

	Serve   ServeCmd   `cmd:"" help:"Serve the HTTP API with live progress events"`
	Harvest HarvestCmd `cmd:"" help:"Log in and harvest leads from the terminal"`
	Resolve ResolveCmd `cmd:"" help:"Show the search code a location resolves to"`
	Runs    RunsCmd    `cmd:"" help:"List archived harvest runs"`
	Show    ShowCmd    `cmd:"" help:"Show an archived run and its leads"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `env:"LEADSCOUT_ADDR" default:":3000" help:"Listen address"`
}

// HarvestCmd is the "harvest" subcommand.
type HarvestCmd struct {
	Title    string        `arg:"" help:"Job title to search for"`
	Location string        `short:"l" help:"Location to search in"`
	Max      int           `short:"n" default:"10" help:"Maximum number of leads"`
	Out      string        `short:"o" help:"Write leads to a .csv, .json or .yaml file instead of stdout"`
	Format   string        `enum:"csv,json,yaml" default:"csv" help:"Stdout format (csv, json, yaml)"`
	Session  string        `default:"cli" help:"Session ID recorded with the archived run"`
	SkipWait bool          `help:"Do not wait for Enter before harvesting; the profile must already be logged in"`
	Timeout  time.Duration `help:"Abort the harvest after this long (0 means no limit)"`
}

// ResolveCmd is the "resolve" subcommand.
type ResolveCmd struct {
	Location string `arg:"" help:"Free-text location"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Session string `help:"Only runs of this session ID"`
	Profile string `help:"Only runs that collected this profile URL"`
	Limit   int    `default:"20" help:"Maximum number of runs"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID     string `arg:"" help:"Run ID"`
	Format string `enum:"csv,json,yaml" default:"csv" help:"Output format (csv, json, yaml)"`
}
