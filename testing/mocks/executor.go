package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/noclist/httpclient"
)

// MockExecutor provides a testify-based mock implementation of httpclient.Executor.
//
// Example usage:
//
//	exec := &mocks.MockExecutor{}
//	exec.ExpectPath("/auth", &httpclient.Response{StatusCode: 200}, nil)
//	client := badsec.NewClient(exec, logger.Nop())
type MockExecutor struct {
	mock.Mock
}

var _ httpclient.Executor = (*MockExecutor)(nil)

// Execute implements httpclient.Executor
func (m *MockExecutor) Execute(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error) {
	arguments := m.Called(ctx, req)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(*httpclient.Response), arguments.Error(1)
}

// ExpectPath sets up an Execute expectation for requests to path.
func (m *MockExecutor) ExpectPath(path string, resp *httpclient.Response, err error) *mock.Call {
	return m.On("Execute", mock.Anything, mock.MatchedBy(func(req *httpclient.Request) bool {
		return req != nil && req.Path == path
	})).Return(resp, err)
}
