package speech

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"vincit.fi/meme-generator/common/logger"
)

const playbackPollInterval = 50 * time.Millisecond

// OtoPlayer plays 16-bit little endian PCM. Only one oto context can exist
// per process so the player is created once at startup.
type OtoPlayer struct {
	context    *oto.Context
	sampleRate int
	channels   int
	mux        sync.Mutex

	Player
}

func NewOtoPlayer(sampleRate int, channels int) (*OtoPlayer, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("could not open audio device: %w", err)
	}
	<-ready
	logger.Debug.Printf("Audio device ready: %d Hz, %d channel(s)", sampleRate, channels)

	return &OtoPlayer{
		context:    context,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

func (s *OtoPlayer) Play(pcm []byte, volume float64) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	// The data must stay referenced until the player is done with it
	reader := bytes.NewReader(pcm)
	player := s.context.NewPlayer(reader)
	defer player.Close()

	player.SetVolume(volume)
	player.Play()
	for player.IsPlaying() {
		time.Sleep(playbackPollInterval)
	}
	return player.Err()
}

func (s *OtoPlayer) SampleRate() int {
	return s.sampleRate
}

func (s *OtoPlayer) Channels() int {
	return s.channels
}

func (s *OtoPlayer) Close() error {
	return s.context.Suspend()
}
