package metadata

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// isoDurationPattern matches ISO-8601 durations like PT1H2M3S or PT45S
	isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
)

// Metadata is what a video page tells about itself
type Metadata struct {
	Title    string
	Duration string
}

// Parser extracts metadata from video pages
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses an HTML page and extracts its title and duration.
// Missing values are left empty.
func (p *Parser) Parse(html string) (*Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	md := &Metadata{}

	// Prefer Open Graph title, fall back to <title>
	for _, sel := range []string{"meta[property='og:title']", "meta[name='title']", "meta[name='twitter:title']"} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			md.Title = strings.TrimSpace(content)
			break
		}
	}
	if md.Title == "" {
		md.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	// schema.org duration is ISO-8601
	if content, ok := doc.Find("meta[itemprop='duration']").First().Attr("content"); ok {
		if secs, ok := ParseISODuration(content); ok {
			md.Duration = FormatDuration(secs)
		}
	}

	// Open Graph durations are plain seconds
	if md.Duration == "" {
		for _, sel := range []string{"meta[property='video:duration']", "meta[property='og:video:duration']"} {
			content, ok := doc.Find(sel).First().Attr("content")
			if !ok {
				continue
			}
			secs, err := strconv.Atoi(strings.TrimSpace(content))
			if err == nil && secs > 0 {
				md.Duration = FormatDuration(secs)
				break
			}
		}
	}

	return md, nil
}

// ParseISODuration converts an ISO-8601 duration to whole seconds
func ParseISODuration(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "P" || s == "PT" {
		return 0, false
	}
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	atoi := func(v string) int {
		if v == "" {
			return 0
		}
		n, _ := strconv.Atoi(v)
		return n
	}

	secs := 0
	if m[4] != "" {
		f, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return 0, false
		}
		secs = int(f)
	}

	total := atoi(m[1])*86400 + atoi(m[2])*3600 + atoi(m[3])*60 + secs
	return total, true
}

// FormatDuration renders seconds as M:SS, or H:MM:SS from one hour up
func FormatDuration(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
