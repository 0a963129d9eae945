package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"TokenRadar/internal/domain/models"
	"TokenRadar/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

// Stream keeps a live snapshot of exchange mini-tickers over WebSocket.
// Fetch is instant: it copies the current snapshot in first-seen symbol
// order, so the run never waits on the socket. The read loop reconnects on
// its own until the stream is closed.
type Stream struct {
	url            string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	maxSymbols     int
	log            *logger.Logger

	mu        sync.RWMutex
	snapshot  map[string]models.RawObservation
	order     []string
	conn      *websocket.Conn
	connected bool
	cancel    context.CancelFunc
}

// NewStream creates the live mini-ticker adapter.
func NewStream(url string, reconnectDelay, pingInterval time.Duration, maxSymbols int, log *logger.Logger) *Stream {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Stream{
		url:            url,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		maxSymbols:     maxSymbols,
		log:            log,
		snapshot:       make(map[string]models.RawObservation),
	}
}

func (s *Stream) ID() string { return "stream" }

// Fetch returns the current snapshot; no network round-trip happens here.
func (s *Stream) Fetch(_ context.Context) ([]models.RawObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected && len(s.order) == 0 {
		return nil, fmt.Errorf("stream not connected")
	}

	raws := make([]models.RawObservation, 0, len(s.order))
	for _, symbol := range s.order {
		raws = append(raws, s.snapshot[symbol])
	}
	return raws, nil
}

// Start connects and launches the read loop. It returns once the first
// connection attempt finished; later disconnects are handled internally.
func (s *Stream) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if err := s.connect(ctx); err != nil {
		// keep retrying in the background; the adapter just stays empty
		s.log.Warn("stream connect failed", logger.Error(err))
	}

	go s.pingLoop(ctx)
	go s.readLoop(ctx)
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Close stops the loops and closes the socket.
func (s *Stream) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *Stream) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("stream connect: %w", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.connected = true
	s.mu.Unlock()

	s.log.Info("stream connected", logger.String("url", s.url))
	return nil
}

// miniTicker is the exchange's 24h rolling mini-ticker event.
type miniTicker struct {
	Event  string `json:"e"`
	Symbol string `json:"s"`
	Close  string `json:"c"`
	Open   string `json:"o"`
}

func (s *Stream) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.RLock()
			conn := s.conn
			s.mu.RUnlock()
			if conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

func (s *Stream) readLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		s.mu.RLock()
		conn := s.conn
		connected := s.connected
		s.mu.RUnlock()

		if conn == nil || !connected {
			time.Sleep(s.reconnectDelay)
			if err := s.connect(ctx); err != nil {
				s.log.Warn("stream reconnect failed", logger.Error(err))
			}
			continue
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn("stream read failed", logger.Error(err))
			s.mu.Lock()
			s.connected = false
			_ = s.conn.Close()
			s.mu.Unlock()
			continue
		}

		var tickers []miniTicker
		if err := json.Unmarshal(b, &tickers); err != nil {
			// ignore non-ticker frames
			continue
		}
		s.apply(tickers)
	}
}

// apply folds a ticker frame into the snapshot, preserving first-seen order
// and the configured symbol cap.
func (s *Stream) apply(tickers []miniTicker) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tickers {
		if t.Symbol == "" {
			continue
		}
		if _, known := s.snapshot[t.Symbol]; !known {
			if s.maxSymbols > 0 && len(s.order) >= s.maxSymbols {
				continue
			}
			s.order = append(s.order, t.Symbol)
		}
		s.snapshot[t.Symbol] = models.RawObservation{
			Symbol: t.Symbol,
			Price:  t.Close,
			Change: changePercent(t.Open, t.Close),
		}
	}
}

// changePercent derives the 24h move from open/close since the mini-ticker
// carries no percentage of its own.
func changePercent(open, last string) string {
	o, err := decimal.NewFromString(open)
	if err != nil || o.IsZero() {
		return ""
	}
	c, err := decimal.NewFromString(last)
	if err != nil {
		return ""
	}
	return c.Sub(o).Div(o).Mul(decimal.NewFromInt(100)).Round(4).String()
}
