package api

type Topic string

const (
	StateChanged  Topic = "event-state-changed"
	VoicesUpdated Topic = "event-voices-updated"
	ShowError     Topic = "event-show-error"

	SpeakUtterance Topic = "event-speak-utterance"
)
