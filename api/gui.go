package api

import (
	"vincit.fi/meme-generator/api/apitype"
)

type ErrorCommand struct {
	Message string `json:"message"`
}

type StateChangedCommand struct {
	Status apitype.Status `json:"status"`
}

type VoicesUpdatedCommand struct {
	Voices []apitype.Voice `json:"voices"`
}

type SpeakCommand struct {
	Utterance *apitype.Utterance
}
