package speech

import (
	"vincit.fi/meme-generator/api"
	"vincit.fi/meme-generator/api/apitype"
)

// NullService is used when the platform has no speech support
type NullService struct {
	api.SpeechService
}

func NewNullService() *NullService {
	return &NullService{}
}

func (s *NullService) Start()                                   {}
func (s *NullService) IsAvailable() bool                        { return false }
func (s *NullService) Voices() []apitype.Voice                  { return []apitype.Voice{} }
func (s *NullService) Speak(utterance *apitype.Utterance) error { return nil }
func (s *NullService) Close()                                   {}
