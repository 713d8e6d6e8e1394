package common

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"vincit.fi/meme-generator/api/apitype"
)

const EnvPrefix = "MEME"

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	keyListen         = "listen"
	keySecret         = "secret"
	keyLogLevel       = "logLevel"
	keyCanvasWidth    = "canvasWidth"
	keyCanvasHeight   = "canvasHeight"
	keyFontPath       = "fontPath"
	keyFontSize       = "fontSize"
	keyMinFontSize    = "minFontSize"
	keyTextOffset     = "textOffset"
	keyStrokeWidth    = "strokeWidth"
	keyResampler      = "resampler"
	keyVolumeLow      = "volumeBands.low"
	keyVolumeMedium   = "volumeBands.medium"
	keyVolumeHigh     = "volumeBands.high"
	keyDefaultVolume  = "defaultVolume"
	keySpeechEngine   = "speechEngine"
	keySampleRate     = "sampleRate"
	keyMaxUploadBytes = "maxUploadBytes"
	keyEventQueueSize = "eventQueueSize"
)

// Flags whose name differs from the configuration key
var flagKeys = map[string]string{
	"volumeLow":    keyVolumeLow,
	"volumeMedium": keyVolumeMedium,
	"volumeHigh":   keyVolumeHigh,
}

type Params struct {
	listen         string
	secret         string
	logLevel       string
	canvasWidth    int
	canvasHeight   int
	fontPath       string
	fontSize       float64
	minFontSize    float64
	textOffset     float64
	strokeWidth    float64
	resampler      string
	volumeBands    apitype.VolumeBands
	defaultVolume  int
	speechEngine   string
	sampleRate     int
	maxUploadBytes int64
	eventQueueSize int
}

func NewEmptyParams() *Params {
	params, _ := LoadParams(nil, "")
	return params
}

// RegisterFlags adds the command line flags. Every flag can also be given in
// the config file or as a MEME_ prefixed environment variable.
func RegisterFlags(flags *pflag.FlagSet) {
	defaults := apitype.DefaultSettings()
	flags.String(keyListen, ":8080", "HTTP listen address")
	flags.String(keySecret, "", "Override default random secret in the page path")
	flags.String(keyLogLevel, "INFO", "Log level: ERROR, WARN, INFO, DEBUG, TRACE")
	flags.Int(keyCanvasWidth, defaults.Canvas.GetWidth(), "Surface width in pixels")
	flags.Int(keyCanvasHeight, defaults.Canvas.GetHeight(), "Surface height in pixels")
	flags.String(keyFontPath, "", "TrueType/OpenType caption font. Built-in bold font if empty")
	flags.Float64(keyFontSize, defaults.FontSize, "Caption font size")
	flags.Float64(keyMinFontSize, defaults.MinFontSize, "Smallest font size long captions are shrunk to")
	flags.Float64(keyTextOffset, defaults.TextOffset, "Caption distance from the top and bottom edges")
	flags.Float64(keyStrokeWidth, defaults.StrokeWidth, "Caption outline width")
	flags.String(keyResampler, "imaging", "Image resampler: imaging, nfnt, xdraw")
	flags.Int("volumeLow", defaults.VolumeBands.Low, "Lowest slider value of the low volume level")
	flags.Int("volumeMedium", defaults.VolumeBands.Medium, "Lowest slider value of the medium volume level")
	flags.Int("volumeHigh", defaults.VolumeBands.High, "Lowest slider value of the high volume level")
	flags.Int(keyDefaultVolume, defaults.DefaultVolume, "Initial volume slider value 0-100")
	flags.String(keySpeechEngine, "espeak-ng", "Speech engine: espeak-ng, espeak, none")
	flags.Int(keySampleRate, 22050, "Sample rate of the speech engine output")
	flags.Int64(keyMaxUploadBytes, 32<<20, "Largest accepted image upload in bytes")
	flags.Int(keyEventQueueSize, 1000, "Event bus queue size")
}

// LoadParams reads the parameters from the flags, environment and the
// optional config file, in that order of precedence
func LoadParams(flags *pflag.FlagSet, configFile string) (*Params, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(flag *pflag.Flag) {
			key, ok := flagKeys[flag.Name]
			if !ok {
				key = flag.Name
			}
			if err := v.BindPFlag(key, flag); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, bindErr)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
		}
	}

	return &Params{
		listen:       v.GetString(keyListen),
		secret:       v.GetString(keySecret),
		logLevel:     v.GetString(keyLogLevel),
		canvasWidth:  v.GetInt(keyCanvasWidth),
		canvasHeight: v.GetInt(keyCanvasHeight),
		fontPath:     v.GetString(keyFontPath),
		fontSize:     v.GetFloat64(keyFontSize),
		minFontSize:  v.GetFloat64(keyMinFontSize),
		textOffset:   v.GetFloat64(keyTextOffset),
		strokeWidth:  v.GetFloat64(keyStrokeWidth),
		resampler:    v.GetString(keyResampler),
		volumeBands: apitype.VolumeBands{
			Low:    v.GetInt(keyVolumeLow),
			Medium: v.GetInt(keyVolumeMedium),
			High:   v.GetInt(keyVolumeHigh),
		},
		defaultVolume:  v.GetInt(keyDefaultVolume),
		speechEngine:   v.GetString(keySpeechEngine),
		sampleRate:     v.GetInt(keySampleRate),
		maxUploadBytes: v.GetInt64(keyMaxUploadBytes),
		eventQueueSize: v.GetInt(keyEventQueueSize),
	}, nil
}

func setDefaults(v *viper.Viper) {
	defaults := apitype.DefaultSettings()
	v.SetDefault(keyListen, ":8080")
	v.SetDefault(keySecret, "")
	v.SetDefault(keyLogLevel, "INFO")
	v.SetDefault(keyCanvasWidth, defaults.Canvas.GetWidth())
	v.SetDefault(keyCanvasHeight, defaults.Canvas.GetHeight())
	v.SetDefault(keyFontPath, "")
	v.SetDefault(keyFontSize, defaults.FontSize)
	v.SetDefault(keyMinFontSize, defaults.MinFontSize)
	v.SetDefault(keyTextOffset, defaults.TextOffset)
	v.SetDefault(keyStrokeWidth, defaults.StrokeWidth)
	v.SetDefault(keyResampler, "imaging")
	v.SetDefault(keyVolumeLow, defaults.VolumeBands.Low)
	v.SetDefault(keyVolumeMedium, defaults.VolumeBands.Medium)
	v.SetDefault(keyVolumeHigh, defaults.VolumeBands.High)
	v.SetDefault(keyDefaultVolume, defaults.DefaultVolume)
	v.SetDefault(keySpeechEngine, "espeak-ng")
	v.SetDefault(keySampleRate, 22050)
	v.SetDefault(keyMaxUploadBytes, 32<<20)
	v.SetDefault(keyEventQueueSize, 1000)
}

// Settings builds the validated rendering and volume settings
func (s *Params) Settings() (apitype.Settings, error) {
	settings := apitype.DefaultSettings()
	settings.Canvas = apitype.SizeOf(s.canvasWidth, s.canvasHeight)
	settings.Background = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	settings.FontPath = s.fontPath
	settings.FontSize = s.fontSize
	settings.MinFontSize = s.minFontSize
	settings.TextOffset = s.textOffset
	settings.StrokeWidth = s.strokeWidth
	settings.VolumeBands = s.volumeBands
	settings.DefaultVolume = s.defaultVolume
	if err := settings.Validate(); err != nil {
		return apitype.Settings{}, err
	}
	return settings, nil
}

func (s *Params) Listen() string {
	return s.listen
}

func (s *Params) Secret() string {
	return s.secret
}

func (s *Params) LogLevel() string {
	return s.logLevel
}

func (s *Params) Resampler() string {
	return s.resampler
}

func (s *Params) SpeechEngine() string {
	return s.speechEngine
}

func (s *Params) SampleRate() int {
	return s.sampleRate
}

func (s *Params) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func (s *Params) EventQueueSize() int {
	return s.eventQueueSize
}
