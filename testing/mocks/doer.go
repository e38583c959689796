package mocks

import (
	"net/http"

	"github.com/stretchr/testify/mock"

	"github.com/gaborage/noclist/httpclient"
)

// MockDoer provides a testify-based mock implementation of httpclient.Doer.
// Use it to script transport failures without a network.
//
// Example usage:
//
//	doer := &mocks.MockDoer{}
//	doer.ExpectError(errors.New("connection refused")).Times(3)
type MockDoer struct {
	mock.Mock
}

var _ httpclient.Doer = (*MockDoer)(nil)

// Do implements httpclient.Doer
func (m *MockDoer) Do(req *http.Request) (*http.Response, error) {
	arguments := m.Called(req)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).(*http.Response), arguments.Error(1)
}

// ExpectResponse sets up a Do expectation returning resp for any request.
func (m *MockDoer) ExpectResponse(resp *http.Response) *mock.Call {
	return m.On("Do", mock.Anything).Return(resp, nil)
}

// ExpectError sets up a Do expectation failing with err for any request.
func (m *MockDoer) ExpectError(err error) *mock.Call {
	return m.On("Do", mock.Anything).Return(nil, err)
}
