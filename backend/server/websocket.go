package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"vincit.fi/meme-generator/api"
	"vincit.fi/meme-generator/common/logger"
)

const (
	MessageStatus = "status"
	MessageVoices = "voices"
	MessageError  = "error"

	clientQueueSize = 16
	writeTimeout    = 5 * time.Second
	pongTimeout     = 60 * time.Second
	pingInterval    = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan Message
}

func (s *Server) eventsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn.Printf("WebSocket upgrade failed: %s", err)
		return
	}
	c := &client{
		conn: conn,
		send: make(chan Message, clientQueueSize),
	}
	c.send <- Message{Type: MessageStatus, Data: s.generator.Status()}
	s.addClient(c)
	logger.Debug.Printf("Event client connected from %s", conn.RemoteAddr())

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop only drains control frames, the stream is one way
func (s *Server) readLoop(c *client) {
	defer s.removeClient(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug.Printf("WebSocket read error: %s", err)
			}
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logger.Debug.Printf("WebSocket write failed: %s", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) addClient(c *client) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()
	s.clients[c] = true
}

func (s *Server) removeClient(c *client) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
		logger.Debug.Printf("Event client disconnected")
	}
}

func (s *Server) closeClients() {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}

// broadcast drops the message for clients that can't keep up
func (s *Server) broadcast(message Message) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()
	for c := range s.clients {
		select {
		case c.send <- message:
		default:
			logger.Warn.Printf("Event client too slow, dropping '%s'", message.Type)
		}
	}
}

func (s *Server) stateChanged(command *api.StateChangedCommand) {
	s.broadcast(Message{Type: MessageStatus, Data: command.Status})
}

func (s *Server) voicesUpdated(command *api.VoicesUpdatedCommand) {
	s.broadcast(Message{Type: MessageVoices, Data: command.Voices})
}

func (s *Server) showError(command *api.ErrorCommand) {
	s.broadcast(Message{Type: MessageError, Data: command})
}
