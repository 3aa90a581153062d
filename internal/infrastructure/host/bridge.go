package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bnema/composer/internal/app/messaging"
	"github.com/bnema/composer/internal/application/port"
	"github.com/bnema/composer/internal/logging"
)

const (
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second
	readLimit       = 1 << 20
)

// BridgeConfig configures the websocket bridge.
type BridgeConfig struct {
	HostPath    string
	PreviewPath string
	SendQueue   int
}

// DefaultBridgeConfig returns the default endpoints.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{HostPath: "/host", PreviewPath: "/preview", SendQueue: 64}
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// WebsocketBridge connects host windows and preview surfaces to the editor.
// Host clients receive every outbound host message and may send
// TOGGLE_EDIT_MODE. Preview clients drive the editor and get a reply per
// message.
type WebsocketBridge struct {
	cfg      BridgeConfig
	host     messaging.EditModeSetter
	preview  *messaging.PreviewHandler
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

var _ port.HostNotifier = (*WebsocketBridge)(nil)

// NewWebsocketBridge creates a bridge. preview may be nil to disable the
// preview endpoint.
func NewWebsocketBridge(cfg BridgeConfig, host messaging.EditModeSetter, preview *messaging.PreviewHandler) *WebsocketBridge {
	defaults := DefaultBridgeConfig()
	if cfg.HostPath == "" {
		cfg.HostPath = defaults.HostPath
	}
	if cfg.PreviewPath == "" {
		cfg.PreviewPath = defaults.PreviewPath
	}
	if cfg.SendQueue <= 0 {
		cfg.SendQueue = defaults.SendQueue
	}
	return &WebsocketBridge{
		cfg:     cfg,
		host:    host,
		preview: preview,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 * 1024,
			WriteBufferSize: 32 * 1024,
			CheckOrigin:     sameOrigin,
		},
		clients: make(map[*client]struct{}),
	}
}

// Bind sets the editor inbound messages are forwarded to, for bridges that
// were created before the editor they notify. Call it before Handler or Serve.
func (b *WebsocketBridge) Bind(host messaging.EditModeSetter, preview *messaging.PreviewHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.host = host
	b.preview = preview
}

// sameOrigin accepts requests without an Origin header and same-host ones.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Handler returns the HTTP handler serving both endpoints.
func (b *WebsocketBridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(b.cfg.HostPath, b.handleHost)
	if b.preview != nil {
		mux.HandleFunc(b.cfg.PreviewPath, b.handlePreview)
	}
	return mux
}

// Serve listens on addr until ctx is done. Request contexts derive from
// ctx, so they carry its logger.
func (b *WebsocketBridge) Serve(ctx context.Context, addr string) error {
	log := logging.FromContext(ctx)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           b.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	log.Info().
		Str("addr", ln.Addr().String()).
		Str("host_path", b.cfg.HostPath).
		Str("preview_path", b.cfg.PreviewPath).
		Msg("host bridge listening")

	select {
	case err := <-errCh:
		b.closeAll()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	b.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down host bridge: %w", err)
	}
	log.Info().Msg("host bridge stopped")
	return nil
}

// Notify broadcasts msg to every host client. A client whose queue is full
// is disconnected; the message is not retried.
func (b *WebsocketBridge) Notify(ctx context.Context, msg port.HostMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode host message: %w", err)
	}
	b.broadcast(ctx, data)
	return nil
}

// Clients returns the number of connected host clients.
func (b *WebsocketBridge) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *WebsocketBridge) broadcast(ctx context.Context, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		select {
		case c.send <- data:
		default:
			logging.FromContext(ctx).Warn().Str("client_id", c.id).Msg("host client too slow, disconnecting")
			delete(b.clients, c)
			c.close()
		}
	}
}

func (b *WebsocketBridge) addClient(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[c] = struct{}{}
}

func (b *WebsocketBridge) removeClient(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.clients[c]; ok {
		delete(b.clients, c)
		c.close()
	}
}

func (b *WebsocketBridge) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		delete(b.clients, c)
		c.close()
	}
}

func (b *WebsocketBridge) handleHost(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.FromContext(r.Context()).Debug().Err(err).Msg("host websocket upgrade failed")
		return
	}
	conn.SetReadLimit(readLimit)

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, b.cfg.SendQueue)}
	ctx := logging.WithClientID(logging.WithComponent(r.Context(), "host-bridge"), c.id)
	log := logging.FromContext(ctx)

	b.addClient(c)
	log.Info().Msg("host client connected")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		writePump(c)
	}()

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("host client read failed")
			}
			break
		}
		if mt != websocket.TextMessage || b.host == nil {
			continue
		}
		// Malformed messages are logged by the handler and do not end the session.
		_ = messaging.HandleHostMessage(ctx, b.host, data)
	}

	b.removeClient(c)
	wg.Wait()
	log.Info().Msg("host client disconnected")
}

func writePump(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			_ = c.conn.Close()
			return
		}
	}
}

func (b *WebsocketBridge) handlePreview(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.FromContext(r.Context()).Debug().Err(err).Msg("preview websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()
	conn.SetReadLimit(readLimit)

	ctx := logging.WithClientID(logging.WithComponent(r.Context(), "preview"), uuid.NewString())
	log := logging.FromContext(ctx)
	log.Debug().Msg("preview surface connected")

	for {
		mt, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("preview read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		reply := b.preview.Handle(ctx, data)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil {
			log.Debug().Err(err).Msg("preview write failed")
			return
		}
	}
}
