// Package fs writes harvested leads to files.
package fs

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/leadscout"
	"gopkg.in/yaml.v3"
)

// Format is an export file format.
type Format string

// Supported export formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// csvHeader names the CSV columns in Lead field order.
var csvHeader = []string{"Name", "Title", "Company", "Location", "Profile URL", "Email", "Phone"}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", leadscout.Errorf(leadscout.EINVALID, "unsupported export format %q", filepath.Ext(path))
	}
}

// Ensure Exporter implements leadscout.LeadExporter at compile time.
var _ leadscout.LeadExporter = (*Exporter)(nil)

// Exporter writes leads to a single file. The file is written to a
// temporary sibling first and renamed into place, so readers never see a
// partial export.
type Exporter struct {
	path   string
	format Format
}

// NewExporter creates an Exporter for path, inferring the format from its extension.
func NewExporter(path string) (*Exporter, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	return &Exporter{path: path, format: format}, nil
}

// Path returns the destination file.
func (e *Exporter) Path() string {
	return e.path
}

// Export encodes leads and replaces the destination file.
func (e *Exporter) Export(ctx context.Context, leads []leadscout.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(e.format, leads)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return err
	}
	tmp := e.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, e.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Encode renders leads in the given format.
func Encode(format Format, leads []leadscout.Lead) ([]byte, error) {
	if leads == nil {
		leads = []leadscout.Lead{}
	}
	switch format {
	case FormatCSV:
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(csvHeader); err != nil {
			return nil, err
		}
		for _, l := range leads {
			if err := w.Write([]string{l.Name, l.Title, l.Company, l.Location, l.ProfileURL, l.Email, l.Phone}); err != nil {
				return nil, err
			}
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	case FormatJSON:
		return json.MarshalIndent(leads, "", "  ")
	case FormatYAML:
		return yaml.Marshal(leads)
	default:
		return nil, leadscout.Errorf(leadscout.EINVALID, "unsupported export format %q", format)
	}
}
