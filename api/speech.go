package api

import "vincit.fi/meme-generator/api/apitype"

type SpeechService interface {
	// Start begins the asynchronous voice discovery
	Start()
	IsAvailable() bool
	Voices() []apitype.Voice
	// Speak queues the utterance for playback and returns immediately
	Speak(utterance *apitype.Utterance) error
	Close()
}
