package landmark

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"SignCoach/internal/entity"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const DefaultReadTimeout = 5 * time.Second

type Config struct {
	URL              string
	Options          Options
	HandshakeTimeout time.Duration
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	PingInterval     time.Duration
	// FailureThreshold consecutive failures open the breaker for BreakerTimeout.
	FailureThreshold uint32
	BreakerTimeout   time.Duration
}

func (c Config) withDefaults() Config {
	if c.HandshakeTimeout == 0 {
		c.HandshakeTimeout = 10 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 5 * time.Second
	}
	if c.PingInterval == 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5
	}
	if c.BreakerTimeout == 0 {
		c.BreakerTimeout = 30 * time.Second
	}
	if c.Options.MaxNumHands == 0 {
		c.Options = DefaultOptions()
	}
	return c
}

type detectRequest struct {
	Image string `json:"image"`
	Options
}

// webSocketClient talks to the hand landmark sidecar over a single websocket.
// A detection round trip holds mu from write to read, so frames from
// concurrent requests never interleave on the connection.
type webSocketClient struct {
	cfg     Config
	log     *logrus.Logger
	breaker *gobreaker.CircuitBreaker

	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	done   chan struct{}
}

func NewWebSocketClient(cfg Config, logger *logrus.Logger) IDetector {
	cfg = cfg.withDefaults()

	c := &webSocketClient{
		cfg:  cfg,
		log:  logger,
		done: make(chan struct{}),
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "hand-landmark",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Caller cancellation is not a sidecar failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Hand landmark circuit breaker state changed")
		},
	})

	return c
}

func (c *webSocketClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialLocked(ctx)
}

func (c *webSocketClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *webSocketClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *webSocketClient) dialLocked(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.log.WithField("url", c.cfg.URL).Debug("Connecting to hand landmark service")

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.cfg.URL, err)
	}

	conn.SetPingHandler(func(appData string) error {
		if err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.cfg.WriteTimeout)); err != nil {
			c.log.Errorf("Error sending pong to hand landmark service: %v", err)
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive(conn)

	c.log.WithField("url", c.cfg.URL).Info("Connected to hand landmark service")
	return nil
}

// dropLocked discards conn if it is still the active connection.
func (c *webSocketClient) dropLocked(conn *websocket.Conn) {
	if c.conn == conn {
		c.conn = nil
	}
	conn.Close()
}

func (c *webSocketClient) keepAlive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		if c.conn != conn {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		// WriteControl is safe to call concurrently with a running round trip.
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.cfg.WriteTimeout)); err != nil {
			c.log.Warnf("Ping to hand landmark service failed, dropping connection: %v", err)
			c.mu.Lock()
			c.dropLocked(conn)
			c.mu.Unlock()
			return
		}
	}
}

func (c *webSocketClient) Detect(ctx context.Context, frame []byte) (*entity.HandDetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.roundTrip(ctx, frame)
	})
	if err != nil {
		return nil, err
	}
	return out.(*entity.HandDetectionResult), nil
}

func deadline(ctx context.Context, d time.Duration) time.Time {
	t := time.Now().Add(d)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(t) {
		return ctxDeadline
	}
	return t
}

// ioError attributes an I/O failure to the caller's context when that context
// ended first, so the breaker does not count it against the sidecar.
func ioError(ctx context.Context, msg string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s: %w: %v", msg, ctxErr, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func (c *webSocketClient) roundTrip(ctx context.Context, frame []byte) (*entity.HandDetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The deadline may have passed while waiting for the previous round trip.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.conn == nil {
		if err := c.dialLocked(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotConnected, err)
		}
	}
	conn := c.conn

	payload, err := jsoniter.Marshal(detectRequest{
		Image:   base64.StdEncoding.EncodeToString(frame),
		Options: c.cfg.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("error encoding detection request: %w", err)
	}

	conn.SetWriteDeadline(deadline(ctx, c.cfg.WriteTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.dropLocked(conn)
		return nil, ioError(ctx, "error sending frame", err)
	}

	conn.SetReadDeadline(deadline(ctx, c.cfg.ReadTimeout))
	_, message, err := conn.ReadMessage()
	if err != nil {
		c.dropLocked(conn)
		return nil, ioError(ctx, "error reading detection response", err)
	}
	conn.SetReadDeadline(time.Time{})
	conn.SetWriteDeadline(time.Time{})

	var result entity.HandDetectionResult
	if err := jsoniter.Unmarshal(message, &result); err != nil {
		return nil, fmt.Errorf("error unmarshaling detection response: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrDetectorResponse, result.Error)
	}

	if limit := c.cfg.Options.MaxNumHands; limit > 0 && len(result.MultiHandLandmarks) > limit {
		result.MultiHandLandmarks = result.MultiHandLandmarks[:limit]
	}

	c.log.WithFields(logrus.Fields{
		"frame_size": len(frame),
		"hands":      len(result.MultiHandLandmarks),
	}).Debug("Received hand landmark response")

	return &result, nil
}
