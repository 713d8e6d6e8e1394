package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vincit.fi/meme-generator/api/apitype"
)

func TestLoadParams_Defaults(t *testing.T) {
	a := assert.New(t)

	params, err := LoadParams(nil, "")
	require.NoError(t, err)

	a.Equal(":8080", params.Listen())
	a.Equal("", params.Secret())
	a.Equal("INFO", params.LogLevel())
	a.Equal("imaging", params.Resampler())
	a.Equal("espeak-ng", params.SpeechEngine())
	a.Equal(22050, params.SampleRate())
	a.Equal(int64(32<<20), params.MaxUploadBytes())
	a.Equal(1000, params.EventQueueSize())

	settings, err := params.Settings()
	require.NoError(t, err)
	a.Equal(apitype.DefaultSettings(), settings)
}

func TestLoadParams_Flags(t *testing.T) {
	a := assert.New(t)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{
		"--listen", "127.0.0.1:9000",
		"--canvasWidth", "800",
		"--volumeMedium", "50",
		"--speechEngine", "none",
	}))

	params, err := LoadParams(flags, "")
	require.NoError(t, err)

	a.Equal("127.0.0.1:9000", params.Listen())
	a.Equal("none", params.SpeechEngine())
	settings, err := params.Settings()
	require.NoError(t, err)
	a.Equal(apitype.SizeOf(800, 400), settings.Canvas)
	a.Equal(apitype.VolumeBands{Low: 1, Medium: 50, High: 67}, settings.VolumeBands)
}

func TestLoadParams_Environment(t *testing.T) {
	a := assert.New(t)
	t.Setenv("MEME_SECRET", "s3cr3t")
	t.Setenv("MEME_FONTSIZE", "64")
	t.Setenv("MEME_VOLUMEBANDS_HIGH", "80")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{}))
	params, err := LoadParams(flags, "")
	require.NoError(t, err)

	a.Equal("s3cr3t", params.Secret())
	settings, err := params.Settings()
	require.NoError(t, err)
	a.Equal(64.0, settings.FontSize)
	a.Equal(80, settings.VolumeBands.High)
}

func TestLoadParams_ConfigFile(t *testing.T) {
	a := assert.New(t)
	configFile := filepath.Join(t.TempDir(), "meme.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
listen: ":9999"
canvasHeight: 300
volumeBands:
  low: 5
speechEngine: espeak
`), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--listen", ":7000"}))
	params, err := LoadParams(flags, configFile)
	require.NoError(t, err)

	// Flags win over the config file
	a.Equal(":7000", params.Listen())
	a.Equal("espeak", params.SpeechEngine())
	settings, err := params.Settings()
	require.NoError(t, err)
	a.Equal(apitype.SizeOf(400, 300), settings.Canvas)
	a.Equal(5, settings.VolumeBands.Low)
}

func TestLoadParams_MissingConfigFile(t *testing.T) {
	_, err := LoadParams(nil, filepath.Join(t.TempDir(), "missing.yaml"))

	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParams_Settings_Invalid(t *testing.T) {
	a := assert.New(t)
	t.Setenv("MEME_CANVASWIDTH", "0")

	params, err := LoadParams(nil, "")
	require.NoError(t, err)
	_, err = params.Settings()

	a.ErrorIs(err, apitype.ErrInvalidSettings)
}
