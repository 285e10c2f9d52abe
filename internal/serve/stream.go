package serve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/websocket"
	"github.com/muesli/termenv"
	"github.com/san-kum/asciibrot/internal/animate"
	"github.com/san-kum/asciibrot/internal/config"
	"github.com/san-kum/asciibrot/internal/palette"
	"github.com/san-kum/asciibrot/internal/plot"
)

const indexText = `asciibrot stream

connect a websocket client to /ws, e.g.

    websocat ws://HOST/ws?style=twotone&frames=60&preset=seahorse

every message is one frame, prefixed with a clear-screen sequence.
`

// StreamServer animates a fresh plot for every websocket client.
type StreamServer struct {
	base    *config.Config
	logger  *log.Logger
	origins []string
}

type StreamOption func(*StreamServer)

// WithOrigins allows upgrades from pages on hosts matching the patterns
// (path.Match syntax). Without it only same-host pages may connect.
func WithOrigins(patterns ...string) StreamOption {
	return func(s *StreamServer) { s.origins = patterns }
}

func NewStreamServer(base *config.Config, logger *log.Logger, opts ...StreamOption) *StreamServer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &StreamServer{
		base:   base,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StreamServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, indexText)
	})
	return mux
}

// configFor applies the style, frames and preset query parameters.
func (s *StreamServer) configFor(r *http.Request) (*config.Config, error) {
	cfg := *s.base
	q := r.URL.Query()

	if v := q.Get("preset"); v != "" {
		p, ok := config.GetPreset(v)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", v)
		}
		cfg.Viewport = p.Viewport
	}
	if v := q.Get("style"); v != "" {
		style, err := palette.ParseStyle(v)
		if err != nil {
			return nil, err
		}
		cfg.Style = style
	}
	if v := q.Get("frames"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("frames: %w", err)
		}
		cfg.Frames = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *StreamServer) serveWS(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.configFor(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := plot.New(cfg.PlotOptions())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer c.CloseNow()

	// clients only listen; CloseRead cancels ctx once they hang up
	ctx := c.CloseRead(r.Context())

	s.logger.Info("stream started", "remote", r.RemoteAddr, "style", cfg.Style, "frames", cfg.Frames)
	start := time.Now()

	rend := palette.NewRendererWithProfile(io.Discard, termenv.TrueColor)
	a := animate.New(&messageWriter{ctx: ctx, conn: c}, animate.WithDelay(cfg.Delay), animate.WithLogger(s.logger))
	err = a.Animate(ctx, cfg.Frames, animate.Plotting(p, rend, nil))

	switch {
	case err == nil:
		c.Close(websocket.StatusNormalClosure, "done")
	case ctx.Err() != nil:
		s.logger.Debug("client went away", "remote", r.RemoteAddr, "state", a.State())
		return
	default:
		s.logger.Error("stream failed", "remote", r.RemoteAddr, "err", err)
		c.Close(websocket.StatusInternalError, "render failed")
		return
	}

	s.logger.Info("stream finished", "remote", r.RemoteAddr, "elapsed", time.Since(start))
}

// messageWriter sends every Write as one websocket text message.
type messageWriter struct {
	ctx  context.Context
	conn *websocket.Conn
}

func (m *messageWriter) Write(p []byte) (int, error) {
	if err := m.conn.Write(m.ctx, websocket.MessageText, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// ListenAndServe serves handler on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("listening", "url", "http://"+addr)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
