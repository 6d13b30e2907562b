package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/leadscout"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var (
	_ leadscout.RunService     = (*RunService)(nil)
	_ leadscout.ContactArchive = (*RunService)(nil)
)

// RunService implements leadscout.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// LeadKey identifies a lead across runs: the profile URL when there is one,
// otherwise the name and company.
func LeadKey(lead leadscout.Lead) string {
	key := lead.ProfileURL
	if !lead.HasProfile() {
		key = strings.ToLower(lead.Name + "\x00" + lead.Company)
	}
	return strconv.FormatUint(xxhash.Sum64String(key), 16)
}

// CreateRun archives a run and its leads in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *leadscout.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.LeadCount = len(run.Leads)
	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, session_id, job_title, location, max_leads, status, error, lead_count, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.SessionID, run.Filter.JobTitle, run.Filter.Location, run.Filter.MaxLeads,
		string(run.Status), run.Error, len(run.Leads),
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO leads (run_id, position, lead_key, name, title, company, location, profile_url, email, phone)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, lead := range run.Leads {
		if _, err := stmt.ExecContext(ctx, run.ID, i, LeadKey(lead),
			lead.Name, lead.Title, lead.Company, lead.Location, lead.ProfileURL, lead.Email, lead.Phone); err != nil {
			return fmt.Errorf("failed to insert lead %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// FindRunByID retrieves a run and its leads.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*leadscout.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, `
		SELECT id, session_id, job_title, location, max_leads, status, error, lead_count, started_at, finished_at
		FROM runs
		WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, leadscout.Errorf(leadscout.ENOTFOUND, "Run not found.")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, title, company, location, profile_url, email, phone
		FROM leads
		WHERE run_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	run.Leads = make([]leadscout.Lead, 0)
	for rows.Next() {
		var lead leadscout.Lead
		if err := rows.Scan(&lead.Name, &lead.Title, &lead.Company, &lead.Location,
			&lead.ProfileURL, &lead.Email, &lead.Phone); err != nil {
			return nil, err
		}
		run.Leads = append(run.Leads, lead)
	}

	return run, rows.Err()
}

// FindRuns retrieves runs matching the filter, newest first. Leads are not loaded.
func (s *RunService) FindRuns(ctx context.Context, filter leadscout.RunFilter) ([]*leadscout.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, session_id, job_title, location, max_leads, status, error, lead_count, started_at, finished_at FROM runs WHERE 1=1")

	if filter.SessionID != nil {
		query.WriteString(" AND session_id = ?")
		args = append(args, *filter.SessionID)
	}
	if filter.ProfileURL != nil {
		query.WriteString(" AND id IN (SELECT run_id FROM leads WHERE lead_key = ?)")
		args = append(args, LeadKey(leadscout.Lead{ProfileURL: *filter.ProfileURL}))
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]*leadscout.Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// FindContactByProfileURL returns the contact of the newest archived lead
// with this profile that has an email or a phone.
func (s *RunService) FindContactByProfileURL(ctx context.Context, profileURL string) (leadscout.Contact, error) {
	var c leadscout.Contact
	err := s.db.QueryRowContext(ctx, `
		SELECT leads.email, leads.phone
		FROM leads
		JOIN runs ON runs.id = leads.run_id
		WHERE leads.lead_key = ? AND (leads.email != ? OR leads.phone != ?)
		ORDER BY runs.started_at DESC, runs.rowid DESC
		LIMIT 1
	`, LeadKey(leadscout.Lead{ProfileURL: profileURL}), leadscout.Unavailable, leadscout.Unavailable).Scan(&c.Email, &c.Phone)
	if err == sql.ErrNoRows {
		return leadscout.Contact{}, leadscout.Errorf(leadscout.ENOTFOUND, "Contact not found.")
	}
	if err != nil {
		return leadscout.Contact{}, err
	}
	return c, nil
}

// ProfileURLs returns the distinct profile URLs of all archived leads.
func (s *RunService) ProfileURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT profile_url
		FROM leads
		WHERE profile_url != ?
	`, leadscout.Unavailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	urls := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*leadscout.Run, error) {
	var run leadscout.Run
	var status, startedAt, finishedAt string
	var leadCount int

	if err := row.Scan(&run.ID, &run.SessionID, &run.Filter.JobTitle, &run.Filter.Location, &run.Filter.MaxLeads,
		&status, &run.Error, &leadCount, &startedAt, &finishedAt); err != nil {
		return nil, err
	}
	run.Status = leadscout.RunStatus(status)
	run.LeadCount = leadCount

	var err error
	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
