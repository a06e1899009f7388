// package formatter renders a movie catalog as CSV, Markdown, plain text, JSON or YAML
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatYAML     Format = "yaml"
)

// ParseFormat maps a flag value to a [Format]. "md", "text" and "yml" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want json, yaml, csv, markdown or txt)", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	case FormatYAML:
		return ".yaml"
	default:
		return ".json"
	}
}

// Catalog is every movie fetched by an export, with poster paths resolved against BaseURL.
type Catalog struct {
	BaseURL    string         `json:"baseUrl" yaml:"base_url"`
	ExportedAt time.Time      `json:"exportedAt" yaml:"exported_at"`
	Total      int            `json:"total" yaml:"total"`
	Movies     []models.Movie `json:"movies" yaml:"movies"`
}

// PosterURL resolves m's poster against the catalog base URL.
func (c *Catalog) PosterURL(m models.Movie) string {
	return models.PosterURL(c.BaseURL, m.PosterPath)
}

// ExportToCSV converts a catalog to CSV with columns: ID, Title, Year, Poster
func ExportToCSV(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Title", "Year", "Poster"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range c.Movies {
		record := []string{m.ID, m.Title, strconv.Itoa(m.PublishingYear), c.PosterURL(m)}
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

// ExportToMarkdown converts a catalog to a Markdown table with inline poster images
func ExportToMarkdown(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Movies\n\n")
	fmt.Fprintf(&buf, "**Total**: %d\n", c.Total)
	fmt.Fprintf(&buf, "**Source**: %s\n\n", c.BaseURL)

	if len(c.Movies) == 0 {
		buf.WriteString("_Your movie list is empty_\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Title | Year | Poster |\n")
	buf.WriteString("|---|---|---|---|\n")
	for i, m := range c.Movies {
		poster := "No poster"
		if url := c.PosterURL(m); url != "" {
			poster = fmt.Sprintf("![%s](%s)", escapeMarkdown(m.Title), url)
		}
		fmt.Fprintf(&buf, "| %d | %s | %d | %s |\n", i+1, escapeMarkdown(m.Title), m.PublishingYear, poster)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a catalog to plain text
func ExportToText(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Movies: %d\n\n", c.Total)
	for i, m := range c.Movies {
		fmt.Fprintf(&buf, "%d. %s (%d)\n", i+1, m.Title, m.PublishingYear)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a catalog to indented JSON
func ExportToJSON(c *Catalog) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML converts a catalog to YAML
func ExportToYAML(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// Export renders c in format f.
func Export(c *Catalog, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(c)
	case FormatMarkdown:
		return ExportToMarkdown(c)
	case FormatText:
		return ExportToText(c)
	case FormatJSON:
		return ExportToJSON(c)
	case FormatYAML:
		return ExportToYAML(c)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// WriteExport renders c and writes it to path, creating parent directories.
func WriteExport(c *Catalog, f Format, path string) error {
	data, err := Export(c, f)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
