package speech

import (
	"context"

	"vincit.fi/meme-generator/api/apitype"
)

// Engine turns text into WAV audio
type Engine interface {
	Name() string
	Voices(ctx context.Context) ([]apitype.Voice, error)
	Synthesize(ctx context.Context, text string, locale string) ([]byte, error)
}

type Player interface {
	// Play blocks until the audio has been played
	Play(pcm []byte, volume float64) error
	SampleRate() int
	Channels() int
	Close() error
}
