package catalog

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/user/video-manager-go/internal/model"
)

// Columns are the list view headings, in display order
var Columns = []string{"ID", "Title", "URL", "Duration", "Category", "Views", "Created At"}

const createdAtLayout = "2006-01-02 15:04:05"

// FormatVideoDetail formats a single video as labelled lines
func FormatVideoDetail(video *model.Video) string {
	if video == nil {
		return ""
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("ID:         %d", video.ID))
	parts = append(parts, fmt.Sprintf("Title:      %s", video.Title))
	parts = append(parts, fmt.Sprintf("URL:        %s", video.URL))
	parts = append(parts, fmt.Sprintf("Duration:   %s", video.Duration))

	// Absent and empty categories render differently
	if video.Category != nil {
		parts = append(parts, fmt.Sprintf("Category:   %s", *video.Category))
	} else {
		parts = append(parts, "Category:   -")
	}

	parts = append(parts, fmt.Sprintf("Views:      %d", video.Views))
	parts = append(parts, fmt.Sprintf("Created At: %s", video.CreatedAt.Local().Format(createdAtLayout)))

	return strings.Join(parts, "\n")
}

// row returns the cells of a video in Columns order
func row(video *model.Video) []string {
	return []string{
		strconv.FormatUint(uint64(video.ID), 10),
		video.Title,
		video.URL,
		video.Duration,
		video.CategoryOrEmpty(),
		strconv.FormatInt(video.Views, 10),
		video.CreatedAt.Local().Format(createdAtLayout),
	}
}

// WriteTable writes videos as a tab-aligned table with a header row
func WriteTable(w io.Writer, videos []*model.Video) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(Columns, "\t"))
	for _, v := range videos {
		fmt.Fprintln(tw, strings.Join(row(v), "\t"))
	}
	return tw.Flush()
}

// SortVideos orders videos in place by the named column.
// ID and Views sort numerically, Created At chronologically, the rest as text.
func SortVideos(videos []*model.Video, column string, desc bool) error {
	var less func(a, b *model.Video) bool

	switch strings.ToLower(strings.ReplaceAll(column, "_", " ")) {
	case "id":
		less = func(a, b *model.Video) bool { return a.ID < b.ID }
	case "title":
		less = func(a, b *model.Video) bool { return a.Title < b.Title }
	case "url":
		less = func(a, b *model.Video) bool { return a.URL < b.URL }
	case "duration":
		less = func(a, b *model.Video) bool { return a.Duration < b.Duration }
	case "category":
		less = func(a, b *model.Video) bool { return a.CategoryOrEmpty() < b.CategoryOrEmpty() }
	case "views":
		less = func(a, b *model.Video) bool { return a.Views < b.Views }
	case "created at", "created":
		less = func(a, b *model.Video) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return fmt.Errorf("unknown column %q (want one of %s)", column, strings.Join(Columns, ", "))
	}

	sort.SliceStable(videos, func(i, j int) bool {
		if desc {
			return less(videos[j], videos[i])
		}
		return less(videos[i], videos[j])
	})
	return nil
}
