package mocks

import (
	"context"

	"storage-sample/core/transport"

	"github.com/stretchr/testify/mock"
)

// Transport is a mock implementation of transport.Transport
type Transport struct {
	mock.Mock
}

func (m *Transport) Do(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*transport.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}
