package generator

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"sync"

	"vincit.fi/meme-generator/api"
	"vincit.fi/meme-generator/api/apitype"
	"vincit.fi/meme-generator/common/logger"
)

const (
	FormatPng  = "png"
	FormatJpeg = "jpeg"

	jpegQuality = 90
)

var (
	ErrUnknownVoice      = errors.New("unknown voice")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// Generator owns the meme being edited. Every state change is published
// to the StateChanged topic.
type Generator struct {
	settings apitype.Settings
	loader   api.ImageLoader
	surface  api.Surface
	captions api.CaptionRenderer
	speech   api.SpeechService
	sender   api.Sender

	state        apitype.State
	image        image.Image
	fit          *apitype.FitRect
	topText      string
	bottomText   string
	volumeSlider int
	voice        string
	revision     uint64
	mux          sync.Mutex

	api.Generator
}

func NewGenerator(settings apitype.Settings, loader api.ImageLoader, surface api.Surface,
	captions api.CaptionRenderer, speech api.SpeechService, sender api.Sender) *Generator {
	s := &Generator{
		settings:     settings,
		loader:       loader,
		surface:      surface,
		captions:     captions,
		speech:       speech,
		sender:       sender,
		state:        apitype.Idle,
		volumeSlider: settings.DefaultVolume,
	}
	s.surface.Clear()
	s.surface.Fill(s.settings.Background)
	return s
}

func (s *Generator) LoadImage(reader io.Reader, name string) error {
	img, err := s.loader.LoadImage(reader, name)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	canvas := s.surface.Size()
	fit, err := apitype.FitToCanvas(
		float64(canvas.GetWidth()), float64(canvas.GetHeight()),
		float64(bounds.Dx()), float64(bounds.Dy()))
	if err != nil {
		return err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	next, err := apitype.Transition(s.state, apitype.ImageSelected)
	if err != nil {
		return err
	}
	if err := s.redraw(img, fit); err != nil {
		return err
	}
	logger.Info.Printf("Loaded image '%s' (%s) into %s", name, apitype.SizeFromRectangle(bounds), fit)

	s.image = img
	s.fit = &fit
	s.topText = ""
	s.bottomText = ""
	s.changeState(next)
	return nil
}

func (s *Generator) Submit(top string, bottom string) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	next, err := apitype.Transition(s.state, apitype.FormSubmitted)
	if err != nil {
		return err
	}
	previous := s.surface.Snapshot()
	if err := s.redraw(s.image, *s.fit); err != nil {
		return err
	}
	if err := s.captions.Render(s.surface, top, bottom); err != nil {
		s.restore(previous)
		return err
	}
	logger.Debug.Printf("Rendered captions '%s' / '%s'", top, bottom)

	s.topText = strings.ToUpper(top)
	s.bottomText = strings.ToUpper(bottom)
	s.changeState(next)
	return nil
}

// Clear removes the captions and leaves the letterboxed image in place
func (s *Generator) Clear() error {
	s.mux.Lock()
	defer s.mux.Unlock()

	next, err := apitype.Transition(s.state, apitype.Cleared)
	if err != nil {
		return err
	}
	if err := s.redraw(s.image, *s.fit); err != nil {
		return err
	}
	s.topText = ""
	s.bottomText = ""
	s.changeState(next)
	return nil
}

// ReadAloud hands the captions to the speech service. The generator lock
// is released before speaking.
func (s *Generator) ReadAloud() error {
	utterance, err := s.utterance()
	if err != nil || utterance == nil {
		return err
	}
	return s.speech.Speak(utterance)
}

func (s *Generator) utterance() (*apitype.Utterance, error) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if s.state != apitype.CaptionGenerated {
		return nil, fmt.Errorf("%w: read aloud in state %s", apitype.ErrInvalidTransition, s.state)
	}
	if !s.speech.IsAvailable() {
		logger.Debug.Printf("Speech not available, not reading aloud")
		return nil, nil
	}
	text := strings.TrimSpace(s.topText + " " + s.bottomText)
	if text == "" {
		logger.Debug.Printf("No captions to read aloud")
		return nil, nil
	}
	volume, err := apitype.VolumeFraction(s.volumeSlider)
	if err != nil {
		return nil, err
	}
	return &apitype.Utterance{
		Text:   text,
		Locale: s.voiceLocale(),
		Volume: volume,
	}, nil
}

func (s *Generator) SetVolume(slider int) (apitype.VolumeLevel, error) {
	volume, err := apitype.VolumeFraction(slider)
	if err != nil {
		return apitype.VolumeMuted, err
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	s.volumeSlider = slider
	level := s.settings.VolumeBands.LevelOf(slider)
	logger.Debug.Printf("Volume set to %d (%.2f, %s)", slider, volume, level)
	s.publish()
	return level, nil
}

func (s *Generator) SelectVoice(name string) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	for _, voice := range s.speech.Voices() {
		if voice.Name == name {
			s.voice = name
			logger.Debug.Printf("Selected voice %s", voice)
			s.publish()
			return nil
		}
	}
	return fmt.Errorf("%w: '%s'", ErrUnknownVoice, name)
}

// VoicesUpdated selects the default voice once the speech service has
// found its voices. An English voice is preferred.
func (s *Generator) VoicesUpdated(command *api.VoicesUpdatedCommand) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if !containsVoice(command.Voices, s.voice) {
		s.voice = defaultVoice(command.Voices)
		logger.Debug.Printf("Default voice '%s'", s.voice)
	}
	s.publish()
}

func (s *Generator) Status() apitype.Status {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.status()
}

func (s *Generator) WriteSurface(writer io.Writer, format string) error {
	s.mux.Lock()
	defer s.mux.Unlock()

	switch strings.ToLower(format) {
	case FormatPng:
		return s.surface.EncodePNG(writer)
	case FormatJpeg, "jpg":
		return s.surface.EncodeJPEG(writer, jpegQuality)
	default:
		return fmt.Errorf("%w: '%s'", ErrUnsupportedFormat, format)
	}
}

// redraw lays the letterboxed image on the background. On failure the
// surface is put back as it was.
func (s *Generator) redraw(img image.Image, fit apitype.FitRect) error {
	previous := s.surface.Snapshot()
	s.surface.Clear()
	s.surface.Fill(s.settings.Background)
	if err := s.surface.DrawImage(img, fit); err != nil {
		s.restore(previous)
		return err
	}
	return nil
}

func (s *Generator) restore(frame *image.RGBA) {
	if err := s.surface.Restore(frame); err != nil {
		logger.Error.Printf("Could not restore the previous frame: %s", err)
	}
}

func (s *Generator) changeState(next apitype.State) {
	if next != s.state {
		logger.Debug.Printf("State %s -> %s", s.state, next)
	}
	s.state = next
	s.publish()
}

func (s *Generator) publish() {
	s.revision++
	s.sender.SendCommandToTopic(api.StateChanged, &api.StateChangedCommand{
		Status: s.status(),
	})
}

func (s *Generator) status() apitype.Status {
	speechAvailable := s.speech.IsAvailable()
	voices := s.speech.Voices()
	// Validated by SetVolume and settings
	volume, _ := apitype.VolumeFraction(s.volumeSlider)

	var fit *apitype.FitRect
	if s.fit != nil {
		copied := *s.fit
		fit = &copied
	}
	return apitype.Status{
		State:          s.state,
		Controls:       apitype.ControlsFor(s.state, speechAvailable),
		TopText:        s.topText,
		BottomText:     s.bottomText,
		Fit:            fit,
		VolumeSlider:   s.volumeSlider,
		VolumeFraction: volume,
		VolumeLevel:    s.settings.VolumeBands.LevelOf(s.volumeSlider),
		Voice:          s.voice,
		Voices:         voices,
		Speech:         speechAvailable,
		Revision:       s.revision,
	}
}

func (s *Generator) voiceLocale() string {
	for _, voice := range s.speech.Voices() {
		if voice.Name == s.voice {
			return voice.Locale
		}
	}
	return ""
}

func containsVoice(voices []apitype.Voice, name string) bool {
	if name == "" {
		return false
	}
	for _, voice := range voices {
		if voice.Name == name {
			return true
		}
	}
	return false
}

func defaultVoice(voices []apitype.Voice) string {
	for _, voice := range voices {
		if voice.Locale == "en" || strings.HasPrefix(voice.Locale, "en-") {
			return voice.Name
		}
	}
	if len(voices) > 0 {
		return voices[0].Name
	}
	return ""
}
