package service

import (
	"context"
	"time"

	"quiz-repair/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuizStore ---
type MockQuizStore struct {
	mock.Mock
}

func (m *MockQuizStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockQuizStore) ReplaceTree(ctx context.Context, index string, hashes map[string]map[string]string, ttl time.Duration) error {
	args := m.Called(ctx, index, hashes, ttl)
	return args.Error(0)
}

func (m *MockQuizStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// --- MockRepairService ---
type MockRepairService struct {
	mock.Mock
}

func (m *MockRepairService) Run(ctx context.Context, strategy string) (*domain.RepairReport, error) {
	args := m.Called(ctx, strategy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepairReport), args.Error(1)
}
