package apitype

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid transition")

type State int

const (
	Idle State = iota
	ImageLoaded
	CaptionGenerated
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ImageLoaded:
		return "image-loaded"
	case CaptionGenerated:
		return "caption-generated"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

type Event int

const (
	ImageSelected Event = iota
	FormSubmitted
	Cleared
)

func (s Event) String() string {
	switch s {
	case ImageSelected:
		return "image-selected"
	case FormSubmitted:
		return "form-submitted"
	case Cleared:
		return "cleared"
	}
	return "unknown"
}

var transitions = map[State]map[Event]State{
	Idle: {
		ImageSelected: ImageLoaded,
	},
	ImageLoaded: {
		ImageSelected: ImageLoaded,
		FormSubmitted: CaptionGenerated,
	},
	CaptionGenerated: {
		ImageSelected: ImageLoaded,
		Cleared:       ImageLoaded,
	},
}

func Transition(from State, event Event) (State, error) {
	if next, ok := transitions[from][event]; ok {
		return next, nil
	}
	return from, fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, event, from)
}

// Controls tells which user actions are currently enabled
type Controls struct {
	FilePick    bool `json:"filePick"`
	Submit      bool `json:"submit"`
	Reset       bool `json:"reset"`
	ReadAloud   bool `json:"readAloud"`
	VoiceSelect bool `json:"voiceSelect"`
	Volume      bool `json:"volume"`
}

func ControlsFor(state State, speechAvailable bool) Controls {
	controls := Controls{
		FilePick:    true,
		VoiceSelect: speechAvailable,
		Volume:      speechAvailable,
	}
	switch state {
	case ImageLoaded:
		controls.Submit = true
	case CaptionGenerated:
		controls.Reset = true
		controls.ReadAloud = speechAvailable
	}
	return controls
}
