package binance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"GoldPulse/internal/domain/models"
	drepo "GoldPulse/internal/domain/repository"
	applogger "GoldPulse/pkg/logger"
)

// Stream implements DepthStream over the Binance partial book websocket
// (<symbol>@depth20@100ms). Each frame is a full top-20 book.
type Stream struct {
	streamURL      string
	symbol         string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	logger         *applogger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

func NewStream(streamURL, symbol string, reconnectDelay, pingInterval time.Duration) *Stream {
	if reconnectDelay <= 0 {
		reconnectDelay = 3 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Stream{
		streamURL:      strings.TrimRight(streamURL, "/"),
		symbol:         symbol,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		logger:         applogger.Nop(),
	}
}

func (s *Stream) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Stream) url() string {
	return fmt.Sprintf("%s/%s@depth20@100ms", s.streamURL, strings.ToLower(s.symbol))
}

func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url(), nil)
	if err != nil {
		return fmt.Errorf("binance stream connect: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()
	s.logger.Info("binance depth stream connected", applogger.String("symbol", s.symbol))
	return nil
}

// Read streams books until ctx ends or the connection fails. On a full
// buffer the newest book is dropped; the next frame supersedes it anyway.
func (s *Stream) Read(ctx context.Context) (<-chan models.Depth, <-chan error) {
	books := make(chan models.Depth, 64)
	errs := make(chan error, 1)

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		errs <- fmt.Errorf("binance stream not connected")
		close(errs)
		close(books)
		return books, errs
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
			}
		}
	}()

	go func() {
		defer close(books)
		defer close(errs)
		defer close(done)
		stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
		defer stop()
		for {
			_, b, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					errs <- fmt.Errorf("binance stream read: %w", err)
				}
				return
			}
			d := ParseDepth(b)
			if len(d.Bids) == 0 && len(d.Asks) == 0 {
				continue
			}
			d.Time = time.Now().UTC()
			select {
			case books <- d:
			default:
			}
		}
	}()

	return books, errs
}

func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.reconnectDelay):
	}
	return s.Connect(ctx)
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}

func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

var _ drepo.DepthStream = (*Stream)(nil)
