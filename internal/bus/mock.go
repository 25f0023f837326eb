package bus

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/npezzotti/go-chat-relay/internal/types"
)

type MockBus struct {
	mock.Mock
}

func (m *MockBus) Publish(ctx context.Context, ev types.Event) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockBus) Subscribe(ctx context.Context, h Handler) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockBus) Close() error {
	args := m.Called()
	return args.Error(0)
}
