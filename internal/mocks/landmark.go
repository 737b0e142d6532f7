package mocks

import (
	"context"
	"sync"

	"SignCoach/internal/entity"
)

// MockDetector implements landmark.IDetector.
type MockDetector struct {
	DetectFunc func(ctx context.Context, frame []byte) (*entity.HandDetectionResult, error)

	mu    sync.Mutex
	calls int
}

func (m *MockDetector) Detect(ctx context.Context, frame []byte) (*entity.HandDetectionResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, frame)
	}
	return &entity.HandDetectionResult{}, nil
}

func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockDetector) Connect(ctx context.Context) error { return nil }

func (m *MockDetector) IsConnected() bool { return true }

func (m *MockDetector) Close() error { return nil }

// MockLandmarkCache implements redis.ILandmarkCache with an in-memory map.
type MockLandmarkCache struct {
	GetErr error
	SetErr error

	mu    sync.Mutex
	items map[string]*entity.HandDetectionResult
}

func (m *MockLandmarkCache) GetLandmarks(ctx context.Context, key string) (*entity.HandDetectionResult, bool, error) {
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.items[key]
	return res, ok, nil
}

func (m *MockLandmarkCache) SetLandmarks(ctx context.Context, key string, result *entity.HandDetectionResult) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items == nil {
		m.items = make(map[string]*entity.HandDetectionResult)
	}
	m.items[key] = result
	return nil
}

func (m *MockLandmarkCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MockLandmarkCache) Close() error { return nil }

// OneHand returns a detection result with a single 21-point hand.
func OneHand() *entity.HandDetectionResult {
	hand := make(entity.HandLandmarks, 21)
	for i := range hand {
		hand[i] = entity.Landmark{X: 0.5, Y: float64(i) / 20, Z: -0.02}
	}
	return &entity.HandDetectionResult{MultiHandLandmarks: []entity.HandLandmarks{hand}}
}
