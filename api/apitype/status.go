package apitype

// Status is a snapshot of the generator shown to the user
type Status struct {
	State          State       `json:"state"`
	Controls       Controls    `json:"controls"`
	TopText        string      `json:"topText"`
	BottomText     string      `json:"bottomText"`
	Fit            *FitRect    `json:"fit,omitempty"`
	VolumeSlider   int         `json:"volumeSlider"`
	VolumeFraction float64     `json:"volumeFraction"`
	VolumeLevel    VolumeLevel `json:"volumeLevel"`
	Voice          string      `json:"voice"`
	Voices         []Voice     `json:"voices"`
	Speech         bool        `json:"speech"`
	Revision       uint64      `json:"revision"`
}
