// Package cdptest provides an in-process fake of the browser debugging
// endpoint: the /json HTTP surface plus per-target websockets.
package cdptest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Target is a fake page.
type Target struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Title                string `json:"title"`
	URL                  string `json:"url"`
	WebSocketDebuggerURL string `json:"webSocketDebuggerUrl"`
	DevtoolsFrontendURL  string `json:"devtoolsFrontendUrl"`
}

// Command is a request received on a target websocket.
type Command struct {
	TargetID string          `json:"-"`
	ID       int64           `json:"id"`
	Method   string          `json:"method"`
	Params   json.RawMessage `json:"params"`
}

// Error is a protocol error payload.
type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Reply is what a handler answers with. A nil Result is sent as {}.
type Reply struct {
	Result any
	Error  *Error
	// Raw, when set, is written verbatim instead of a structured response.
	Raw []byte
}

// HandlerFunc answers one command.
type HandlerFunc func(cmd Command) Reply

// Server is a fake debugging endpoint.
type Server struct {
	mu       sync.Mutex
	srv      *httptest.Server
	upgrader websocket.Upgrader
	browser  string

	targets  []Target
	created  int
	commands []Command
	handlers map[string]HandlerFunc
	opens    int
	closes   int
}

// New starts a fake on a random loopback port.
func New() *Server {
	s := newServer()
	s.srv = httptest.NewServer(s.Handler())
	return s
}

// NewOnAddr starts a fake on addr, e.g. 127.0.0.1:9222.
func NewOnAddr(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	s := newServer()
	s.srv = httptest.NewUnstartedServer(s.Handler())
	s.srv.Listener.Close()
	s.srv.Listener = ln
	s.srv.Start()
	return s, nil
}

func newServer() *Server {
	s := &Server{
		browser:  "Chrome/cdptest",
		handlers: map[string]HandlerFunc{},
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.handlers["Page.captureScreenshot"] = func(Command) Reply {
		return Reply{Result: map[string]string{"data": base64.StdEncoding.EncodeToString(PNG())}}
	}
	return s
}

// Handler is the router serving the fake endpoint.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Get("/json/version", s.handleVersion)
	router.Get("/json", s.handleList)
	router.Get("/json/list", s.handleList)
	router.Put("/json/new", s.handleNew)
	router.Get("/devtools/page/{targetId}", s.handlePage)
	return router
}

// Close stops the server. Probes fail afterwards.
func (s *Server) Close() {
	s.srv.Close()
}

// URL is the HTTP base URL.
func (s *Server) URL() string {
	return s.srv.URL
}

// Port is the listening port.
func (s *Server) Port() int {
	_, port, _ := net.SplitHostPort(s.srv.Listener.Addr().String())
	n, _ := strconv.Atoi(port)
	return n
}

// AddTarget registers an open page at rawURL and returns its id.
func (s *Server) AddTarget(rawURL string) string {
	return s.AddTargetOfType("page", rawURL)
}

// AddTargetOfType registers a target with an explicit type.
func (s *Server) AddTargetOfType(typ, rawURL string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.newTarget(typ, rawURL)
	s.targets = append(s.targets, t)
	return t.ID
}

// Targets returns a copy of the open targets.
func (s *Server) Targets() []Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Target(nil), s.targets...)
}

// Created counts targets opened through /json/new.
func (s *Server) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// Handle installs a handler for method.
func (s *Server) Handle(method string, fn HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = fn
}

// Commands returns every command received, in order.
func (s *Server) Commands() []Command {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Command(nil), s.commands...)
}

// Methods returns the method of every command received, in order.
func (s *Server) Methods() []string {
	cmds := s.Commands()
	methods := make([]string, len(cmds))
	for i, c := range cmds {
		methods[i] = c.Method
	}
	return methods
}

// Opens counts accepted websocket connections.
func (s *Server) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}

// Closes counts websocket connections the client has closed.
func (s *Server) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

func (s *Server) newTarget(typ, rawURL string) Target {
	id := uuid.NewString()
	host := s.srv.Listener.Addr().String()
	return Target{
		ID:                   id,
		Type:                 typ,
		Title:                rawURL,
		URL:                  rawURL,
		WebSocketDebuggerURL: fmt.Sprintf("ws://%s/devtools/page/%s", host, id),
		DevtoolsFrontendURL:  fmt.Sprintf("/devtools/inspector.html?ws=%s/devtools/page/%s", host, id),
	}
}

func (s *Server) handleVersion(w http.ResponseWriter, req *http.Request) {
	payload := map[string]any{
		"Browser":              s.browser,
		"Protocol-Version":     "1.3",
		"User-Agent":           "cdptest",
		"V8-Version":           "0.0",
		"WebKit-Version":       "0.0",
		"webSocketDebuggerUrl": fmt.Sprintf("ws://%s/devtools/browser/%s", req.Host, uuid.NewString()),
	}
	writeJSON(w, payload)
}

func (s *Server) handleList(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, s.Targets())
}

func (s *Server) handleNew(w http.ResponseWriter, req *http.Request) {
	rawURL, err := url.PathUnescape(req.URL.RawQuery)
	if err != nil || rawURL == "" {
		rawURL = "about:blank"
	}

	s.mu.Lock()
	t := s.newTarget("page", rawURL)
	s.targets = append(s.targets, t)
	s.created++
	s.mu.Unlock()

	writeJSON(w, t)
}

func (s *Server) handlePage(w http.ResponseWriter, req *http.Request) {
	targetID := chi.URLParam(req, "targetId")
	if !s.hasTarget(targetID) {
		http.Error(w, "No such target id: "+targetID, http.StatusNotFound)
		return
	}

	ws, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	s.mu.Lock()
	s.opens++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.closes++
		s.mu.Unlock()
	}()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			return
		}
		cmd.TargetID = targetID

		s.mu.Lock()
		s.commands = append(s.commands, cmd)
		handler := s.handlers[cmd.Method]
		s.mu.Unlock()

		reply := Reply{}
		if handler != nil {
			reply = handler(cmd)
		}
		if err := ws.WriteMessage(websocket.TextMessage, encodeReply(cmd.ID, reply)); err != nil {
			return
		}
	}
}

func (s *Server) hasTarget(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.targets {
		if t.ID == id {
			return true
		}
	}
	return false
}

func encodeReply(id int64, reply Reply) []byte {
	if reply.Raw != nil {
		return reply.Raw
	}
	msg := map[string]any{"id": id}
	if reply.Error != nil {
		msg["error"] = reply.Error
	} else if reply.Result != nil {
		msg["result"] = reply.Result
	} else {
		msg["result"] = map[string]any{}
	}
	data, _ := json.Marshal(msg)
	return data
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// PNG returns a valid 1x1 PNG image.
func PNG() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	return buf.Bytes()
}
