package formatter

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/desertthunder/reel/internal/models"
	"github.com/desertthunder/reel/internal/shared"
	th "github.com/desertthunder/reel/internal/testing"
)

func testCatalog() *Catalog {
	return &Catalog{
		BaseURL:    "http://localhost:3000",
		ExportedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Total:      2,
		Movies: []models.Movie{
			{ID: "abc123", Title: "Dune", PublishingYear: 2021, PosterPath: "/uploads/dune.jpg"},
			{ID: "x1", Title: "Heat | Director's Cut", PublishingYear: 1995},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testCatalog())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "ID,Title,Year,Poster\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "abc123,Dune,2021,http://localhost:3000/uploads/dune.jpg") {
			t.Errorf("CSV missing resolved poster row, got: %s", output)
		}
		if !strings.Contains(output, "x1,Heat | Director's Cut,1995,\n") {
			t.Errorf("CSV missing poster-less row, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testCatalog())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "**Total**: 2") {
			t.Errorf("Markdown missing total, got: %s", output)
		}
		if !strings.Contains(output, "![Dune](http://localhost:3000/uploads/dune.jpg)") {
			t.Errorf("Markdown missing poster image, got: %s", output)
		}
		if !strings.Contains(output, `Heat \| Director's Cut`) {
			t.Errorf("Markdown should escape pipes, got: %s", output)
		}
		if !strings.Contains(output, "No poster") {
			t.Errorf("Markdown missing placeholder, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown Empty", func(t *testing.T) {
		data, _ := ExportToMarkdown(&Catalog{BaseURL: "http://localhost:3000"})
		if !strings.Contains(string(data), "Your movie list is empty") {
			t.Errorf("expected empty-state text, got: %s", data)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testCatalog())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}
		if !strings.Contains(string(data), "1. Dune (2021)") {
			t.Errorf("Text missing entry, got: %s", data)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(testCatalog())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded Catalog
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded.Movies) != 2 || decoded.Movies[0].ID != "abc123" {
			t.Errorf("unexpected decoded catalog: %+v", decoded)
		}
		if !strings.Contains(string(data), `"_id": "abc123"`) {
			t.Errorf("expected wire field names, got: %s", data)
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(testCatalog())
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		var decoded Catalog
		if err := yaml.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid YAML: %v", err)
		}
		if len(decoded.Movies) != 2 || decoded.Movies[0].PublishingYear != 2021 || !decoded.ExportedAt.Equal(testCatalog().ExportedAt) {
			t.Errorf("unexpected decoded catalog: %+v", decoded)
		}
		if !strings.Contains(string(data), "poster_path: /uploads/dune.jpg") {
			t.Errorf("expected snake_case keys, got: %s", data)
		}
		if strings.Count(string(data), "poster_path") != 1 {
			t.Errorf("empty poster paths should be omitted, got: %s", data)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
		ext  string
	}{
		{in: "", want: FormatJSON, ext: ".json"},
		{in: "CSV", want: FormatCSV, ext: ".csv"},
		{in: "md", want: FormatMarkdown, ext: ".md"},
		{in: "text", want: FormatText, ext: ".txt"},
		{in: "yml", want: FormatYAML, ext: ".yaml"},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want || got.Extension() != tt.ext {
				t.Errorf("ParseFormat(%q) = %s (%s), want %s (%s)", tt.in, got, got.Extension(), tt.want, tt.ext)
			}
		})
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "movies.csv")

	if err := WriteExport(testCatalog(), FormatCSV, path); err != nil {
		t.Fatalf("WriteExport failed: %v", err)
	}

	th.AssertFileExists(t, path)
	if content := th.MustReadFile(t, path); !strings.Contains(content, "Dune") {
		t.Errorf("expected export content, got: %s", content)
	}

	if err := WriteExport(testCatalog(), Format("xml"), path); err == nil {
		t.Error("expected error for unknown format")
	}
}
