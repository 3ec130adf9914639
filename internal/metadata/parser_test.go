package metadata

import (
	"testing"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name         string
		html         string
		wantTitle    string
		wantDuration string
	}{
		{
			name: "open graph title and schema.org duration",
			html: `<html><head>
				<title>Ignored - Site</title>
				<meta property="og:title" content="Intro to Go">
				<meta itemprop="duration" content="PT12M34S">
			</head><body></body></html>`,
			wantTitle:    "Intro to Go",
			wantDuration: "12:34",
		},
		{
			name:         "falls back to title element",
			html:         `<html><head><title>  Plain Title  </title></head></html>`,
			wantTitle:    "Plain Title",
			wantDuration: "",
		},
		{
			name: "open graph seconds duration",
			html: `<html><head>
				<meta property="og:title" content="Long Talk">
				<meta property="video:duration" content="3723">
			</head></html>`,
			wantTitle:    "Long Talk",
			wantDuration: "1:02:03",
		},
		{
			name: "invalid iso duration falls back to seconds",
			html: `<html><head>
				<meta itemprop="duration" content="soon">
				<meta property="og:video:duration" content="59">
			</head></html>`,
			wantTitle:    "",
			wantDuration: "0:59",
		},
		{
			name: "empty og title uses twitter title",
			html: `<html><head>
				<meta property="og:title" content=" ">
				<meta name="twitter:title" content="Tweeted">
			</head></html>`,
			wantTitle:    "Tweeted",
			wantDuration: "",
		},
		{
			name:         "empty document",
			html:         ``,
			wantTitle:    "",
			wantDuration: "",
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := p.Parse(tt.html)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if md.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", md.Title, tt.wantTitle)
			}
			if md.Duration != tt.wantDuration {
				t.Errorf("Duration = %q, want %q", md.Duration, tt.wantDuration)
			}
		})
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"PT12M34S", 754, true},
		{"PT1H2M3S", 3723, true},
		{"PT45S", 45, true},
		{"PT2H", 7200, true},
		{"pt5m", 300, true},
		{"P1DT1S", 86401, true},
		{"PT1.5S", 1, true},
		{"PT", 0, false},
		{"P", 0, false},
		{"", 0, false},
		{"12:34", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseISODuration(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseISODuration(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{754, "12:34"},
		{3600, "1:00:00"},
		{3723, "1:02:03"},
		{-3, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.secs); got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
			}
		})
	}
}
