package onebot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wisphq/wisp/internal/adapter"
	"github.com/wisphq/wisp/internal/config"
	"github.com/wisphq/wisp/internal/event"
	"github.com/wisphq/wisp/internal/message"
)

// Adapter speaks the OneBot protocol: inbound events over a websocket
// (dialing out, or accepting a reverse connection), outbound messages via
// the HTTP send_msg API. CQ codes are the wire form on both paths.
type Adapter struct {
	logger *slog.Logger
	cfg    config.OneBotConfig
	client *http.Client
}

// New creates a OneBot adapter from configuration.
func New(log *slog.Logger, cfg config.OneBotConfig) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(cfg.WSURL) == "" {
		cfg.WSURL = config.DefaultOneBotWSURL
	}
	if strings.TrimSpace(cfg.HTTPURL) == "" {
		cfg.HTTPURL = config.DefaultOneBotHTTPURL
	}
	return &Adapter{
		logger: log.With(slog.String("adapter", "onebot")),
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *Adapter) Type() adapter.Type { return Type }

func (a *Adapter) Descriptor() adapter.Descriptor {
	return adapter.Descriptor{
		Type:        Type,
		DisplayName: "OneBot",
		Elements:    elementFactories(),
	}
}

// Send posts the chain's wire form to the send_msg API.
func (a *Adapter) Send(ctx context.Context, target event.Contact, chain *message.Chain) error {
	if chain == nil {
		return errors.New("message chain is required")
	}
	if strings.TrimSpace(target.ID) == "" {
		return errors.New("target id is required")
	}
	req := sendRequest{Message: chain.Code()}
	if target.IsGroup() {
		req.MessageType = "group"
		req.GroupID = target.ID
	} else {
		req.MessageType = "private"
		req.UserID = target.ID
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode send_msg: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(a.cfg.HTTPURL, "/")+"/send_msg", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send_msg request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.cfg.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.cfg.AccessToken)
	}
	resp, err := a.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send_msg: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send_msg: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Connect opens the event stream. With ws_reverse the adapter listens for
// the platform to connect; otherwise it dials the configured ws_url.
func (a *Adapter) Connect(ctx context.Context, handler adapter.InboundHandler) (adapter.Connection, error) {
	if a.cfg.WSReverse {
		return a.listenReverse(ctx, handler)
	}
	return a.dial(ctx, handler)
}

func (a *Adapter) dial(ctx context.Context, handler adapter.InboundHandler) (adapter.Connection, error) {
	header := http.Header{}
	if a.cfg.AccessToken != "" {
		header.Set("Authorization", "Bearer "+a.cfg.AccessToken)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, a.cfg.WSURL, header)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", a.cfg.WSURL, err)
	}
	a.logger.Info("connected", slog.String("ws_url", a.cfg.WSURL))

	connCtx, cancel := context.WithCancel(ctx)
	go a.readLoop(connCtx, conn, handler)

	stop := func(context.Context) error {
		cancel()
		return conn.Close()
	}
	return adapter.NewConnection(Type, stop), nil
}

func (a *Adapter) listenReverse(ctx context.Context, handler adapter.InboundHandler) (adapter.Connection, error) {
	addr := strings.TrimSpace(a.cfg.ListenAddr)
	if addr == "" {
		return nil, errors.New("listen_addr is required for ws_reverse")
	}
	connCtx, cancel := context.WithCancel(ctx)
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.AccessToken != "" {
			auth := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if auth != a.cfg.AccessToken {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			a.logger.Error("upgrade failed", slog.Any("error", err))
			return
		}
		a.logger.Info("reverse connection accepted", slog.String("remote", r.RemoteAddr))
		a.readLoop(connCtx, conn, handler)
	})
	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("reverse listener failed", slog.Any("error", err))
		}
	}()

	stop := func(ctx context.Context) error {
		cancel()
		return server.Shutdown(ctx)
	}
	return adapter.NewConnection(Type, stop), nil
}

func (a *Adapter) readLoop(ctx context.Context, conn *websocket.Conn, handler adapter.InboundHandler) {
	defer conn.Close()
	for {
		if ctx.Err() != nil {
			return
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				a.logger.Error("read failed", slog.Any("error", err))
			}
			return
		}
		var payload inboundPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			a.logger.Warn("malformed event frame", slog.Any("error", err))
			continue
		}
		ev := payload.toEvent()
		if ev == nil {
			continue
		}
		if err := handler(ctx, ev); err != nil {
			a.logger.Error("handle inbound failed", slog.Any("error", err))
		}
	}
}
