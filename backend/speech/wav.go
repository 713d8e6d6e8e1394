package speech

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrUnsupportedAudio = errors.New("unsupported audio")

const wavFormatPcm = 1

type PcmFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// ParseWav returns the PCM samples of a WAV file. Streamed WAVs may carry
// a placeholder data size so the data chunk is cut to what is available.
func ParseWav(data []byte) ([]byte, PcmFormat, error) {
	format := PcmFormat{}
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return nil, format, fmt.Errorf("%w: not a WAV file", ErrUnsupportedAudio)
	}

	formatFound := false
	offset := 12
	for offset+8 <= len(data) {
		chunkId := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch chunkId {
		case "fmt ":
			if chunkSize < 16 || body+16 > len(data) {
				return nil, format, fmt.Errorf("%w: truncated format chunk", ErrUnsupportedAudio)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			format.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			format.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			format.BitDepth = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if audioFormat != wavFormatPcm || format.BitDepth != 16 || format.Channels < 1 {
				return nil, format, fmt.Errorf("%w: format %d with %d bits", ErrUnsupportedAudio, audioFormat, format.BitDepth)
			}
			formatFound = true
		case "data":
			if !formatFound {
				return nil, format, fmt.Errorf("%w: data before format", ErrUnsupportedAudio)
			}
			end := body + chunkSize
			if end > len(data) || end < body {
				end = len(data)
			}
			pcm := data[body:end]
			return pcm[:len(pcm)-len(pcm)%(2*format.Channels)], format, nil
		}

		// Chunks are padded to an even size
		offset = body + chunkSize + chunkSize%2
		if offset < body {
			break
		}
	}
	return nil, format, fmt.Errorf("%w: no data chunk", ErrUnsupportedAudio)
}
