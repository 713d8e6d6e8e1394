package backend

import (
	"fmt"

	"vincit.fi/meme-generator/api"
	"vincit.fi/meme-generator/backend/caption"
	"vincit.fi/meme-generator/backend/generator"
	"vincit.fi/meme-generator/backend/imageloader"
	"vincit.fi/meme-generator/backend/server"
	"vincit.fi/meme-generator/backend/speech"
	"vincit.fi/meme-generator/backend/surface"
	"vincit.fi/meme-generator/common"
	"vincit.fi/meme-generator/common/event"
	"vincit.fi/meme-generator/common/logger"
)

type Services struct {
	ImageLoader   api.ImageLoader
	Surface       api.Surface
	Captions      api.CaptionRenderer
	SpeechService api.SpeechService
	Generator     *generator.Generator
	Server        *server.Server
}

func (s *Services) Close() {
	s.SpeechService.Close()
}

type Brokers struct {
	Broker *event.Broker
}

func InitializeEventBrokers(eventBusQueueSize int) *Brokers {
	logger.Debug.Printf("Initialize event brokers...")
	brokers := &Brokers{
		Broker: event.InitBus(eventBusQueueSize),
	}
	logger.Debug.Printf("Event brokers initialized")
	return brokers
}

func InitializeServices(params *common.Params, brokers *Brokers) (*Services, error) {
	logger.Debug.Printf("Initialize services...")
	settings, err := params.Settings()
	if err != nil {
		return nil, err
	}
	scaler, err := surface.NewScaler(params.Resampler())
	if err != nil {
		return nil, err
	}
	drawingSurface, err := surface.NewSurface(settings.Canvas, scaler)
	if err != nil {
		return nil, err
	}
	captions, err := caption.NewRenderer(settings)
	if err != nil {
		return nil, fmt.Errorf("could not initialize captions: %w", err)
	}

	imageLoader := imageloader.NewImageLoader(params.MaxUploadBytes())
	speechService := speech.NewSpeechService(params.SpeechEngine(), params.SampleRate(), brokers.Broker)
	memeGenerator := generator.NewGenerator(settings, imageLoader, drawingSurface, captions, speechService, brokers.Broker)
	brokers.Broker.Subscribe(api.VoicesUpdated, memeGenerator.VoicesUpdated)

	services := &Services{
		ImageLoader:   imageLoader,
		Surface:       drawingSurface,
		Captions:      captions,
		SpeechService: speechService,
		Generator:     memeGenerator,
		Server:        server.NewServer(params, memeGenerator, brokers.Broker),
	}
	logger.Debug.Printf("Services initialized")
	return services, nil
}
