// package formatter renders post results, post history and credential status as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/amsavalli07/socialsync/internal/models"
	"github.com/amsavalli07/socialsync/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// ParseFormat accepts the format names plus the "txt", "md" shorthands.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	}
	return "", fmt.Errorf("%w: format %q", shared.ErrInvalidArgument, s)
}

// Ext returns the file extension used by [WriteExport].
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return ".md"
	case CSV:
		return ".csv"
	case JSON:
		return ".json"
	}
	return ".txt"
}

const (
	statusPosted  = "posted"
	statusSkipped = "skipped"
)

func platformStatus(r *models.SocialMediaResponse) string {
	if r == nil {
		return statusSkipped
	}
	return statusPosted
}

// PostToCSV converts a post result to CSV with columns: Platform, Status, Reference
func PostToCSV(resp *models.PostResponse) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Platform", "Status", "Reference"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	responses := resp.Data.Responses()
	for _, p := range models.AllPlatforms() {
		r := responses[p]
		if err := writer.Write([]string{string(p), platformStatus(r), r.Ref()}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// PostToMarkdown converts a post result to Markdown with the hosted image embedded
func PostToMarkdown(resp *models.PostResponse) []byte {
	var buf bytes.Buffer
	d := resp.Data

	buf.WriteString("# Post\n\n")
	if d.Media.SecureURL != "" {
		fmt.Fprintf(&buf, "![Image](%s)\n\n", d.Media.SecureURL)
	}
	if d.Caption != "" {
		fmt.Fprintf(&buf, "**Caption**: %s\n\n", d.Caption)
	}
	if !d.UploadedAt.IsZero() {
		fmt.Fprintf(&buf, "**Uploaded**: %s\n", d.UploadedAt.Format(time.RFC3339))
	}
	if d.Media.Width > 0 {
		fmt.Fprintf(&buf, "**Media**: %s %dx%d\n", d.Media.Format, d.Media.Width, d.Media.Height)
	}

	buf.WriteString("\n## Platforms\n\n")
	responses := d.Responses()
	for _, p := range models.AllPlatforms() {
		r := responses[p]
		if ref := r.Ref(); ref != "" {
			fmt.Fprintf(&buf, "- %s: %s (`%s`)\n", p.Label(), platformStatus(r), ref)
		} else {
			fmt.Fprintf(&buf, "- %s: %s\n", p.Label(), platformStatus(r))
		}
	}
	return buf.Bytes()
}

// PostToText converts a post result to plain text
func PostToText(resp *models.PostResponse) []byte {
	var buf bytes.Buffer
	d := resp.Data

	if resp.Message != "" {
		fmt.Fprintf(&buf, "%s\n", resp.Message)
	}
	if d.Caption != "" {
		fmt.Fprintf(&buf, "Caption: %s\n", d.Caption)
	}
	if d.Media.SecureURL != "" {
		fmt.Fprintf(&buf, "Image: %s\n", d.Media.SecureURL)
	}
	buf.WriteString("\n")

	responses := d.Responses()
	for _, p := range models.AllPlatforms() {
		r := responses[p]
		line := fmt.Sprintf("%-10s %s", p.Label(), platformStatus(r))
		if ref := r.Ref(); ref != "" {
			line += " " + ref
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes()
}

// Post renders resp in format f.
func Post(resp *models.PostResponse, f Format) ([]byte, error) {
	switch f {
	case Markdown:
		return PostToMarkdown(resp), nil
	case CSV:
		return PostToCSV(resp)
	case JSON:
		return shared.MarshalJSON(resp, true)
	}
	return PostToText(resp), nil
}

// WriteExport writes resp in format f to path.
//
// Defaults to post_{unix seconds of the upload}{ext} as the filename.
func WriteExport(resp *models.PostResponse, f Format, path string) (string, error) {
	if path == "" {
		stamp := resp.Data.UploadedAt
		if stamp.IsZero() {
			stamp = time.Now()
		}
		path = fmt.Sprintf("post_%d%s", stamp.Unix(), f.Ext())
	}

	data, err := Post(resp, f)
	if err != nil {
		return "", fmt.Errorf("failed to render post: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// HistoryToCSV converts stored posts to CSV with columns: Sequence, ID, Caption, Format, Width, Height, Size, Created
func HistoryToCSV(posts []*models.Post) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "ID", "Caption", "Format", "Width", "Height", "Size", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range posts {
		record := []string{
			strconv.Itoa(p.Sequence()),
			p.ID(),
			p.Caption(),
			p.Format(),
			strconv.Itoa(p.Width()),
			strconv.Itoa(p.Height()),
			strconv.Itoa(p.SizeBytes()),
			p.CreatedAt().UTC().Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// StatusRow is one provider line of the credential status table.
type StatusRow struct {
	Provider   models.Provider
	Configured bool
	Detail     string
}

// StatusTable renders credential status rows as a bordered table.
func StatusTable(rows []StatusRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Provider", "Status", "Detail")

	for _, r := range rows {
		status := "not configured"
		if r.Configured {
			status = "configured"
		}
		t.Row(r.Provider.Label(), status, r.Detail)
	}
	return t.Render()
}
