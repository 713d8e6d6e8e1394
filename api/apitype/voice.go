package apitype

import "fmt"

type Voice struct {
	Name   string `json:"name"`
	Locale string `json:"locale"`
}

func (s Voice) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Locale)
}

// Utterance is a piece of text to be spoken with the given voice locale
// at Volume in range 0.0-1.0
type Utterance struct {
	Text   string
	Locale string
	Volume float64
}

func (s *Utterance) String() string {
	return fmt.Sprintf("Utterance{'%s', %s, %.2f}", s.Text, s.Locale, s.Volume)
}
