package catalog

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/user/video-manager-go/internal/model"
)

func sampleVideos() []*model.Video {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	return []*model.Video{
		{ID: 1, Title: "Beta Show", URL: "http://x/b", Duration: "10:00", Category: model.StringPtr("Comedy"), Views: 5, CreatedAt: base},
		{ID: 2, Title: "Alpha Tutorial", URL: "http://x/a", Duration: "05:00", Views: 12, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Title: "gamma demo", URL: "http://x/g", Duration: "01:00", Category: model.StringPtr(""), Views: 9, CreatedAt: base.Add(-time.Hour)},
	}
}

func titles(videos []*model.Video) []string {
	var out []string
	for _, v := range videos {
		out = append(out, v.Title)
	}
	return out
}

func TestFormatVideoDetail(t *testing.T) {
	v := sampleVideos()[0]
	out := FormatVideoDetail(v)

	for _, want := range []string{"ID:         1", "Title:      Beta Show", "URL:        http://x/b", "Category:   Comedy", "Views:      5", "Created At: 2024-03-01 12:00:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatVideoDetail() missing %q in:\n%s", want, out)
		}
	}

	if FormatVideoDetail(nil) != "" {
		t.Error("FormatVideoDetail(nil) should be empty")
	}

	absent := sampleVideos()[1]
	if !strings.Contains(FormatVideoDetail(absent), "Category:   -") {
		t.Error("absent category should render as -")
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleVideos()); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("WriteTable() wrote %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.Contains(lines[0], "Created At") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Beta Show") || !strings.Contains(lines[1], "Comedy") {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, nil); err != nil {
		t.Fatalf("WriteTable() error = %v", err)
	}
	if strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("empty table should only have a header, got %q", buf.String())
	}
}

func TestSortVideos(t *testing.T) {
	tests := []struct {
		column string
		desc   bool
		want   []string
	}{
		{"id", false, []string{"Beta Show", "Alpha Tutorial", "gamma demo"}},
		{"ID", true, []string{"gamma demo", "Alpha Tutorial", "Beta Show"}},
		{"title", false, []string{"Alpha Tutorial", "Beta Show", "gamma demo"}},
		{"views", false, []string{"Beta Show", "gamma demo", "Alpha Tutorial"}},
		{"views", true, []string{"Alpha Tutorial", "gamma demo", "Beta Show"}},
		{"category", false, []string{"Alpha Tutorial", "gamma demo", "Beta Show"}},
		{"created_at", false, []string{"gamma demo", "Beta Show", "Alpha Tutorial"}},
		{"Created At", true, []string{"Alpha Tutorial", "Beta Show", "gamma demo"}},
		{"duration", false, []string{"gamma demo", "Alpha Tutorial", "Beta Show"}},
		{"url", false, []string{"Alpha Tutorial", "Beta Show", "gamma demo"}},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			videos := sampleVideos()
			if err := SortVideos(videos, tt.column, tt.desc); err != nil {
				t.Fatalf("SortVideos() error = %v", err)
			}
			got := titles(videos)
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("SortVideos(%q, %v) = %v, want %v", tt.column, tt.desc, got, tt.want)
				}
			}
		})
	}

	if err := SortVideos(sampleVideos(), "rating", false); err == nil {
		t.Error("SortVideos() with unknown column expected error")
	}
}

// Property: Table Completeness
// Every title written to the table appears in the output.
func TestProperty_TableContainsEveryTitle(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("table contains each title", prop.ForAll(
		func(ts []string) bool {
			var videos []*model.Video
			for i, title := range ts {
				videos = append(videos, &model.Video{ID: uint(i + 1), Title: title, URL: "u", Duration: "1:00"})
			}

			var buf bytes.Buffer
			if err := WriteTable(&buf, videos); err != nil {
				return false
			}
			out := buf.String()
			for _, title := range ts {
				if !strings.Contains(out, title) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}
