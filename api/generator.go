package api

import (
	"io"

	"vincit.fi/meme-generator/api/apitype"
)

type Generator interface {
	LoadImage(reader io.Reader, name string) error
	Submit(top string, bottom string) error
	Clear() error
	ReadAloud() error
	SetVolume(slider int) (apitype.VolumeLevel, error)
	SelectVoice(name string) error
	Status() apitype.Status
	WriteSurface(writer io.Writer, format string) error
}
