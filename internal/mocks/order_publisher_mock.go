// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/cart-service/internal/events"
	"github.com/stretchr/testify/mock"
)

type MockOrderPublisher struct {
	mock.Mock
}

func NewMockOrderPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderPublisher {
	m := &MockOrderPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOrderPublisher) Publish(ctx context.Context, event events.OrderPlaced) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOrderPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
