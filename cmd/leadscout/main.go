package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/bloom"
	"github.com/fwojciec/leadscout/geo"
	"github.com/fwojciec/leadscout/goquery"
	"github.com/fwojciec/leadscout/harvest"
	"github.com/fwojciec/leadscout/rod"
	lsslog "github.com/fwojciec/leadscout/slog"
	"github.com/fwojciec/leadscout/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; flags and the environment still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database used by the run archive.
	DB *sqlite.DB

	// Services for end-to-end testing. When set, Run uses them instead of
	// building the real ones.
	Sessions leadscout.SessionService
	Runs     leadscout.RunService
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Sessions != nil {
		errs = append(errs, m.Sessions.Stop())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("leadscout"),
		kong.Description("Harvest professional leads from people search results."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		kong.Vars{
			"default_db":            defaultDBPath(),
			"default_user_data_dir": defaultUserDataDir(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'leadscout --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	if cli.MaxPages < 0 || cli.MaxPages > harvest.PageLimit {
		return fmt.Errorf("--max-pages must be between 0 and %d", harvest.PageLimit)
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	rules := goquery.DefaultRules()
	if cli.Rules != "" {
		if rules, err = goquery.LoadRulesFile(cli.Rules); err != nil {
			return fmt.Errorf("failed to load rules from %q: %w", cli.Rules, err)
		}
	}
	deps.Locations = geo.NewResolver(nil, "")

	cmdName := kongCtx.Selected().Name
	harvesting := cmdName == "serve" || cmdName == "harvest"

	var known leadscout.ContactLookup
	if cmdName != "resolve" {
		if m.Runs == nil && !cli.NoArchive {
			m.DB = sqlite.NewDB(cli.DB)
			if err := m.DB.Open(); err != nil {
				fmt.Fprintf(stderr, "Hint: Set LEADSCOUT_DB to use a different database path\n")
				return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
			}
			store := sqlite.NewRunService(m.DB)
			index := bloom.NewProfileIndex(store, store, profileIndexSize, profileIndexFPRate)
			if harvesting && !cli.NoReuse {
				n, err := index.Load(ctx)
				if err != nil {
					return fmt.Errorf("failed to load archived profiles: %w", err)
				}
				deps.Logger.Debug("archived profiles indexed", "profiles", n)
				known = index
			}
			m.Runs = lsslog.NewLoggingRunService(index, deps.Logger)
		}
		deps.Runs = m.Runs
	}

	if harvesting {
		if m.Sessions == nil {
			sessions, err := newController(cli, rules, deps.Locations, known, deps.Logger)
			if err != nil {
				return err
			}
			m.Sessions = sessions
		}
		deps.Sessions = m.Sessions
	}

	return kongCtx.Run(deps)
}

// Sizing of the archived profile filter. Larger archives only raise the
// false positive rate, which costs an extra archive query.
const (
	profileIndexSize   = 100_000
	profileIndexFPRate = 0.001
)

// newController wires the browser, the extractor and the enricher into a
// harvest controller. known may be nil.
func newController(cli *CLI, rules *goquery.Rules, locations leadscout.LocationResolver, known leadscout.ContactLookup, logger *slog.Logger) (*harvest.Controller, error) {
	extractor, err := goquery.NewExtractor(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to compile rules: %w", err)
	}

	launcher := lsslog.NewLoggingLauncher(&rod.Launcher{
		Headless:    cli.Headless,
		UserDataDir: cli.UserDataDir,
	}, logger)

	enricher := harvest.NewEnricher(extractor, harvest.NewDomainLimiter(cli.ProfileRate))
	enricher.Logger = logger
	enricher.Known = known

	c := harvest.NewController(launcher, extractor, extractor, locations, enricher)
	c.Logger = logger
	c.Config.LandingURL = rules.BaseURL
	c.Config.ResultsContainer = rules.ResultsContainer
	c.Config.NextButton = rules.NextButton
	if cli.MaxPages > 0 {
		c.Config.MaxPages = cli.MaxPages
	}
	return c, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "leadscout.db"
	}
	dir := filepath.Join(home, ".leadscout")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "leadscout.db")
}

// defaultUserDataDir keeps the browser profile, and with it the manual
// login, next to the database.
func defaultUserDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".leadscout", "browser")
}
