package player

import "testing"

func TestBrowser_OpenPassesURL(t *testing.T) {
	var got string
	b := &Browser{open: func(url string) { got = url }}

	b.Open("https://example.com/watch?v=1")

	if got != "https://example.com/watch?v=1" {
		t.Errorf("open called with %q, want %q", got, "https://example.com/watch?v=1")
	}
}

func TestBrowser_OpenRecoversPanic(t *testing.T) {
	b := &Browser{open: func(string) { panic("no browser") }}

	// Must not propagate
	b.Open("https://example.com")
}

func TestNew(t *testing.T) {
	if _, ok := New(true).(*Browser); !ok {
		t.Error("New(true) should return *Browser")
	}
	if _, ok := New(false).(Nop); !ok {
		t.Error("New(false) should return Nop")
	}
}
