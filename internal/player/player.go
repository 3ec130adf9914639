package player

import (
	"github.com/go-rod/rod/lib/launcher"
	"github.com/rs/zerolog/log"
)

// Opener hands a video URL to an external viewer.
// Open is fire-and-forget: it reports nothing back to the caller.
type Opener interface {
	Open(url string)
}

// Browser opens URLs in a locally installed browser
type Browser struct {
	// open is replaceable in tests
	open func(url string)
}

// NewBrowser creates an opener backed by the system browser
func NewBrowser() *Browser {
	return &Browser{open: launcher.Open}
}

// Open launches the browser with url. Failures are logged and swallowed.
func (b *Browser) Open(url string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("url", url).Msg("Failed to open video in browser")
		}
	}()

	log.Info().Str("url", url).Msg("Opening video in browser")
	b.open(url)
}

// Nop ignores every URL
type Nop struct{}

// Open does nothing
func (Nop) Open(url string) {
	log.Debug().Str("url", url).Msg("Player disabled, not opening video")
}

// New returns a Browser when enabled, otherwise Nop
func New(enabled bool) Opener {
	if enabled {
		return NewBrowser()
	}
	return Nop{}
}
