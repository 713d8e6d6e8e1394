package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"vincit.fi/meme-generator/api"
	"vincit.fi/meme-generator/api/apitype"
	"vincit.fi/meme-generator/common/event"
	"vincit.fi/meme-generator/common/logger"
)

const (
	speakQueueSize = 10
	None           = "none"
)

var (
	ErrEmptyUtterance = errors.New("nothing to say")
	ErrSpeechBusy     = errors.New("speech queue full")
)

// Service reads utterances aloud. Speak only queues the utterance; the
// queue subscriber synthesizes and plays them one at a time. At most
// speakQueueSize utterances are pending so publishing never blocks.
type Service struct {
	engine  Engine
	player  Player
	sender  api.Sender
	queue   *event.Broker
	pending atomic.Int32
	voices  []apitype.Voice
	ctx     context.Context
	cancel  context.CancelFunc
	started sync.Once
	mux     sync.RWMutex

	api.SpeechService
}

func NewService(engine Engine, player Player, sender api.Sender) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		engine: engine,
		player: player,
		sender: sender,
		queue:  event.InitBus(speakQueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
	s.queue.Subscribe(api.SpeakUtterance, s.speakFromQueue)
	return s
}

// NewSpeechService picks the engine by name. Missing engine or audio device
// results in a service that is simply not available.
func NewSpeechService(engineName string, sampleRate int, sender api.Sender) api.SpeechService {
	if engineName == "" || engineName == None {
		logger.Info.Printf("Speech disabled")
		return NewNullService()
	}
	engine, err := NewEspeakEngine(engineName)
	if err != nil {
		logger.Warn.Printf("Speech not available: %s", err)
		return NewNullService()
	}
	player, err := NewOtoPlayer(sampleRate, 1)
	if err != nil {
		logger.Warn.Printf("Speech not available: %s", err)
		return NewNullService()
	}
	return NewService(engine, player, sender)
}

func (s *Service) Start() {
	s.started.Do(func() {
		go s.loadVoices()
	})
}

func (s *Service) loadVoices() {
	logger.Debug.Printf("Loading voices from '%s'...", s.engine.Name())
	voices, err := s.engine.Voices(s.ctx)
	if err != nil {
		s.sender.SendError("Could not load voices", err)
		return
	}
	s.mux.Lock()
	s.voices = voices
	s.mux.Unlock()

	logger.Info.Printf("Found %d voices", len(voices))
	s.sender.SendCommandToTopic(api.VoicesUpdated, &api.VoicesUpdatedCommand{
		Voices: voices,
	})
}

func (s *Service) IsAvailable() bool {
	return true
}

func (s *Service) Voices() []apitype.Voice {
	s.mux.RLock()
	defer s.mux.RUnlock()
	voices := make([]apitype.Voice, len(s.voices))
	copy(voices, s.voices)
	return voices
}

func (s *Service) Speak(utterance *apitype.Utterance) error {
	if utterance == nil || strings.TrimSpace(utterance.Text) == "" {
		return ErrEmptyUtterance
	}
	if s.pending.Add(1) > speakQueueSize {
		s.pending.Add(-1)
		logger.Warn.Printf("Speech queue full, dropping: %s", utterance.Text)
		return ErrSpeechBusy
	}
	logger.Debug.Printf("Adding to speech queue: %s", utterance.Text)
	s.queue.SendCommandToTopic(api.SpeakUtterance, &api.SpeakCommand{Utterance: utterance})
	return nil
}

func (s *Service) speakFromQueue(command *api.SpeakCommand) {
	defer s.pending.Add(-1)
	if err := s.speak(command.Utterance); err != nil {
		s.sender.SendError("Could not read the captions aloud", err)
	}
}

func (s *Service) speak(utterance *apitype.Utterance) error {
	wav, err := s.engine.Synthesize(s.ctx, utterance.Text, utterance.Locale)
	if err != nil {
		return err
	}
	pcm, format, err := ParseWav(wav)
	if err != nil {
		return err
	}
	if format.SampleRate != s.player.SampleRate() || format.Channels != s.player.Channels() {
		return fmt.Errorf("%w: %d Hz/%d channels, player expects %d Hz/%d channels", ErrUnsupportedAudio,
			format.SampleRate, format.Channels, s.player.SampleRate(), s.player.Channels())
	}
	logger.Debug.Printf("Playing %d bytes at volume %.2f", len(pcm), utterance.Volume)
	return s.player.Play(pcm, utterance.Volume)
}

func (s *Service) Close() {
	logger.Info.Println("Shutdown speech")
	s.cancel()
	s.queue.Close(api.SpeakUtterance)
	if err := s.player.Close(); err != nil {
		logger.Warn.Printf("Could not close audio player: %s", err)
	}
}
