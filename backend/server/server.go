package server

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"vincit.fi/meme-generator/api"
	"vincit.fi/meme-generator/api/apitype"
	"vincit.fi/meme-generator/backend/generator"
	"vincit.fi/meme-generator/backend/imageloader"
	"vincit.fi/meme-generator/backend/speech"
	"vincit.fi/meme-generator/common"
	"vincit.fi/meme-generator/common/event"
	"vincit.fi/meme-generator/common/logger"
)

const (
	imageField        = "image"
	multipartOverhead = 64 << 10
	readHeaderTimeout = 10 * time.Second
)

//go:embed static/index.html
var indexPage []byte

type Server struct {
	listen         string
	secret         string
	maxUploadBytes int64
	generator      api.Generator
	broker         *event.Broker
	router         *mux.Router
	server         *http.Server
	clients        map[*client]bool
	clientsMux     sync.Mutex
	serverMux      sync.Mutex
}

func NewServer(params *common.Params, generator api.Generator, broker *event.Broker) *Server {
	s := &Server{
		listen:         params.Listen(),
		secret:         resolveSecret(params.Secret()),
		maxUploadBytes: params.MaxUploadBytes(),
		generator:      generator,
		broker:         broker,
		clients:        map[*client]bool{},
	}
	s.router = s.routes()

	broker.Subscribe(api.StateChanged, s.stateChanged)
	broker.Subscribe(api.VoicesUpdated, s.voicesUpdated)
	broker.Subscribe(api.ShowError, s.showError)
	return s
}

func resolveSecret(secret string) string {
	if secret == "" {
		if randomSecret, err := uuid.NewRandom(); err != nil {
			logger.Error.Panic("Could not initialize secret", err)
			return ""
		} else {
			return randomSecret.String()
		}
	} else {
		return secret
	}
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	root := router.PathPrefix("/" + s.secret).Subrouter()
	root.HandleFunc("/", s.indexHandler).Methods(http.MethodGet)

	apiRouter := root.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/status", s.statusHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/image", s.imageHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/caption", s.captionHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/clear", s.clearHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/speak", s.speakHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/volume", s.volumeHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/voice", s.voiceHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/surface.{format:png|jpg|jpeg}", s.surfaceHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/events", s.eventsHandler).Methods(http.MethodGet)
	return router
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Path is the secret root of the page
func (s *Server) Path() string {
	return "/" + s.secret + "/"
}

func (s *Server) Start() {
	s.serverMux.Lock()
	defer s.serverMux.Unlock()
	if s.server != nil {
		logger.Warn.Println("Server already running")
		return
	}

	logger.Debug.Printf("Starting HTTP server:\n"+
		" * Address: %s\n"+
		" * Secret: %s", s.listen, s.secret)
	s.server = &http.Server{
		Addr:              s.listen,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	go func(server *http.Server) {
		logger.Info.Printf("Open http://%s%s", displayAddress(s.listen), s.Path())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.broker.SendError("Error while running HTTP server", err)
		}
	}(s.server)
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.serverMux.Lock()
	defer s.serverMux.Unlock()
	s.closeClients()
	if s.server == nil {
		logger.Debug.Println("No server running")
		return nil
	}
	logger.Info.Println("Shutting down HTTP server")
	err := s.server.Shutdown(ctx)
	s.server = nil
	return err
}

func displayAddress(listen string) string {
	if len(listen) > 0 && listen[0] == ':' {
		return "localhost" + listen
	}
	return listen
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexPage); err != nil {
		logger.Error.Println("Failed to write page: ", err)
	}
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, s.generator.Status())
}

func (s *Server) imageHandler(w http.ResponseWriter, r *http.Request) {
	if s.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+multipartOverhead)
	}
	file, header, err := r.FormFile(imageField)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			s.writeError(w, fmt.Errorf("%w: %s", imageloader.ErrImageTooLarge, err))
		} else {
			s.writeError(w, fmt.Errorf("%w: %s", imageloader.ErrNoImage, err))
		}
		return
	}
	defer file.Close()

	if err := s.generator.LoadImage(file, header.Filename); err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusOK, s.generator.Status())
}

func (s *Server) captionHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.generator.Submit(r.FormValue("top"), r.FormValue("bottom")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusOK, s.generator.Status())
}

func (s *Server) clearHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.generator.Clear(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusOK, s.generator.Status())
}

func (s *Server) speakHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.generator.ReadAloud(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusAccepted, s.generator.Status())
}

func (s *Server) volumeHandler(w http.ResponseWriter, r *http.Request) {
	slider, err := strconv.Atoi(r.FormValue("value"))
	if err != nil {
		s.writeError(w, fmt.Errorf("%w: '%s'", apitype.ErrInvalidVolume, r.FormValue("value")))
		return
	}
	if _, err := s.generator.SetVolume(slider); err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusOK, s.generator.Status())
}

func (s *Server) voiceHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.generator.SelectVoice(r.FormValue("name")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJson(w, http.StatusOK, s.generator.Status())
}

func (s *Server) surfaceHandler(w http.ResponseWriter, r *http.Request) {
	format := mux.Vars(r)["format"]
	contentType := "image/jpeg"
	if format == generator.FormatPng {
		contentType = "image/png"
	}

	buffer := new(bytes.Buffer)
	if err := s.generator.WriteSurface(buffer, format); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buffer.Len()))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(buffer.Bytes()); err != nil {
		logger.Error.Println("Failed to write image: ", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error.Printf("Request failed: %s", err)
	} else {
		logger.Debug.Printf("Request rejected (%d): %s", status, err)
	}
	writeJson(w, status, errorResponse{Error: err.Error()})
}

// StatusOf maps the generator's errors to HTTP status codes
func StatusOf(err error) int {
	switch {
	case errors.Is(err, apitype.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, imageloader.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, speech.ErrSpeechBusy):
		return http.StatusTooManyRequests
	case errors.Is(err, imageloader.ErrNoImage),
		errors.Is(err, imageloader.ErrUnsupportedImage),
		errors.Is(err, apitype.ErrInvalidGeometry),
		errors.Is(err, apitype.ErrInvalidVolume),
		errors.Is(err, generator.ErrUnknownVoice),
		errors.Is(err, generator.ErrUnsupportedFormat),
		errors.Is(err, speech.ErrEmptyUtterance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJson(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		logger.Error.Println("Failed to write response: ", err)
	}
}
