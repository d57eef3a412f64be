// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/cart-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockSlotStore struct {
	mock.Mock
}

func NewMockSlotStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSlotStore {
	m := &MockSlotStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSlotStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	args := m.Called(ctx, namespace, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockSlotStore) Commit(ctx context.Context, namespace string, mutations ...repository.Mutation) error {
	args := m.Called(ctx, namespace, mutations)
	return args.Error(0)
}

func (m *MockSlotStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
