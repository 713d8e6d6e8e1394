package speech

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"vincit.fi/meme-generator/api/apitype"
	"vincit.fi/meme-generator/common/logger"
)

const (
	EspeakNg = "espeak-ng"
	Espeak   = "espeak"

	defaultTimeout = 30 * time.Second
)

var ErrEngineUnavailable = errors.New("speech engine unavailable")

type EspeakEngine struct {
	binary  string
	timeout time.Duration

	Engine
}

// NewEspeakEngine finds the espeak binary from PATH
func NewEspeakEngine(binary string) (*EspeakEngine, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEngineUnavailable, err)
	}
	logger.Debug.Printf("Using speech engine '%s'", path)
	return &EspeakEngine{
		binary:  path,
		timeout: defaultTimeout,
	}, nil
}

func (s *EspeakEngine) Name() string {
	return s.binary
}

func (s *EspeakEngine) Voices(ctx context.Context) ([]apitype.Voice, error) {
	output, err := s.execute(ctx, "", "--voices")
	if err != nil {
		return nil, err
	}
	return ParseVoices(output), nil
}

// Synthesize returns the text spoken with the voice of the locale as WAV
func (s *EspeakEngine) Synthesize(ctx context.Context, text string, locale string) ([]byte, error) {
	args := []string{"--stdout"}
	if locale != "" {
		args = append(args, "-v", locale)
	}
	return s.execute(ctx, text, args...)
}

func (s *EspeakEngine) execute(ctx context.Context, input string, args ...string) ([]byte, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, s.binary, args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s cancelled: %w", s.binary, ctx.Err())
		}
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%s failed: %w\nstderr: %s", s.binary, err, stderr.String())
		}
		return nil, fmt.Errorf("%s failed: %w", s.binary, err)
	}
	return stdout.Bytes(), nil
}

// ParseVoices reads the voice table printed by "espeak --voices":
//
//	Pty Language       Age/Gender VoiceName          File          Other Languages
//	 5  en-gb           --/M      English_(Great_Britain) gmw/en
func ParseVoices(output []byte) []apitype.Voice {
	var voices []apitype.Voice
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, apitype.Voice{
			Name:   strings.ReplaceAll(fields[3], "_", " "),
			Locale: fields[1],
		})
	}
	return voices
}
