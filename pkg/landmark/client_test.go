package landmark

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"SignCoach/internal/entity"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeSidecar answers each detection frame with reply(req).
func fakeSidecar(t *testing.T, reply func(req detectRequest) entity.HandDetectionResult) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var req detectRequest
			if err := jsoniter.Unmarshal(msg, &req); err != nil {
				return
			}
			out, _ := jsoniter.Marshal(reply(req))
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func oneHand(x float64) entity.HandDetectionResult {
	hand := make(entity.HandLandmarks, 21)
	for i := range hand {
		hand[i] = entity.Landmark{X: x, Y: float64(i) / 21, Z: -0.01}
	}
	return entity.HandDetectionResult{MultiHandLandmarks: []entity.HandLandmarks{hand}}
}

func TestDetect_ReturnsLandmarksAndSendsOptions(t *testing.T) {
	var got detectRequest
	var mu sync.Mutex
	srv := fakeSidecar(t, func(req detectRequest) entity.HandDetectionResult {
		mu.Lock()
		got = req
		mu.Unlock()
		return oneHand(0.5)
	})
	defer srv.Close()

	client := NewWebSocketClient(Config{URL: wsURL(srv)}, quietLogger())
	defer client.Close()

	res, err := client.Detect(context.Background(), []byte("frame"))
	require.NoError(t, err)
	require.Len(t, res.FirstHand(), 21)
	assert.Equal(t, 0.5, res.FirstHand()[0].X)
	assert.True(t, client.IsConnected())

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, got.StaticImageMode)
	assert.Equal(t, 1, got.MaxNumHands)
	assert.Equal(t, 0.5, got.MinDetectionConfidence)
	decoded, err := base64.StdEncoding.DecodeString(got.Image)
	require.NoError(t, err)
	assert.Equal(t, "frame", string(decoded))
}

func TestDetect_NoHand(t *testing.T) {
	srv := fakeSidecar(t, func(req detectRequest) entity.HandDetectionResult {
		return entity.HandDetectionResult{}
	})
	defer srv.Close()

	client := NewWebSocketClient(Config{URL: wsURL(srv)}, quietLogger())
	defer client.Close()

	res, err := client.Detect(context.Background(), []byte("frame"))
	require.NoError(t, err)
	assert.Nil(t, res.FirstHand())
}

func TestDetect_TruncatesToMaxNumHands(t *testing.T) {
	srv := fakeSidecar(t, func(req detectRequest) entity.HandDetectionResult {
		res := oneHand(0.1)
		res.MultiHandLandmarks = append(res.MultiHandLandmarks, oneHand(0.2).MultiHandLandmarks...)
		return res
	})
	defer srv.Close()

	client := NewWebSocketClient(Config{URL: wsURL(srv)}, quietLogger())
	defer client.Close()

	res, err := client.Detect(context.Background(), []byte("frame"))
	require.NoError(t, err)
	assert.Len(t, res.MultiHandLandmarks, 1)
}

func TestDetect_SidecarError(t *testing.T) {
	srv := fakeSidecar(t, func(req detectRequest) entity.HandDetectionResult {
		return entity.HandDetectionResult{Error: "model not loaded"}
	})
	defer srv.Close()

	client := NewWebSocketClient(Config{URL: wsURL(srv)}, quietLogger())
	defer client.Close()

	_, err := client.Detect(context.Background(), []byte("frame"))
	assert.ErrorIs(t, err, ErrDetectorResponse)
}

func TestDetect_SerializesConcurrentFrames(t *testing.T) {
	srv := fakeSidecar(t, func(req detectRequest) entity.HandDetectionResult {
		decoded, _ := base64.StdEncoding.DecodeString(req.Image)
		return oneHand(float64(len(decoded)))
	})
	defer srv.Close()

	client := NewWebSocketClient(Config{URL: wsURL(srv)}, quietLogger())
	defer client.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			res, err := client.Detect(context.Background(), []byte(strings.Repeat("x", n)))
			if err != nil {
				errs <- err
				return
			}
			if res.FirstHand()[0].X != float64(n) {
				errs <- assert.AnError
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected result: %v", err)
	}
}

func TestDetect_ExpiredWaiterKeepsConnection(t *testing.T) {
	var dials atomic.Int32
	received := make(chan struct{}, 4)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		dials.Add(1)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			received <- struct{}{}
			time.Sleep(300 * time.Millisecond)
			out, _ := jsoniter.Marshal(oneHand(0.5))
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	client := NewWebSocketClient(Config{URL: wsURL(srv), FailureThreshold: 1}, quietLogger())
	defer client.Close()

	slow := make(chan error, 1)
	go func() {
		_, err := client.Detect(context.Background(), []byte("slow"))
		slow <- err
	}()
	<-received

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err := client.Detect(ctx, []byte("queued"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, <-slow)
	assert.True(t, client.IsConnected())

	res, err := client.Detect(context.Background(), []byte("next"))
	require.NoError(t, err)
	assert.Len(t, res.FirstHand(), 21)
	assert.Equal(t, int32(1), dials.Load())
}

func TestDetect_UnreachableOpensBreaker(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	client := NewWebSocketClient(Config{
		URL:              url,
		HandshakeTimeout: time.Second,
		FailureThreshold: 2,
		BreakerTimeout:   time.Minute,
	}, quietLogger())
	defer client.Close()

	for i := 0; i < 2; i++ {
		_, err := client.Detect(context.Background(), []byte("frame"))
		assert.ErrorIs(t, err, ErrNotConnected)
	}

	_, err := client.Detect(context.Background(), []byte("frame"))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.False(t, client.IsConnected())
}

func TestDetect_CanceledContext(t *testing.T) {
	client := NewWebSocketClient(Config{URL: "ws://127.0.0.1:1"}, quietLogger())
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Detect(ctx, []byte("frame"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClose_RejectsReconnect(t *testing.T) {
	client := NewWebSocketClient(Config{URL: "ws://127.0.0.1:1"}, quietLogger())
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	assert.ErrorIs(t, client.Connect(context.Background()), ErrClosed)
}
