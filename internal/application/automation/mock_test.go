package automation

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	domain "github.com/erp/automation/internal/domain/automation"
)

// MockRequester is a mock implementation of domain.Requester
type MockRequester struct {
	mock.Mock
}

func (m *MockRequester) Request(ctx context.Context, creds domain.Credentials, req domain.Request) (json.RawMessage, error) {
	args := m.Called(ctx, creds, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// expect registers a call and captures the request it receives
func (m *MockRequester) expect(body string, err error) *domain.Request {
	captured := &domain.Request{}
	var ret any
	if body != "" {
		ret = json.RawMessage(body)
	}
	m.On("Request", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			*captured = args.Get(2).(domain.Request)
		}).
		Return(ret, err).
		Once()
	return captured
}

var testCreds = domain.Credentials{AccessToken: "access-123", RefreshToken: "refresh-456"}

func bundle(input domain.Record) domain.Bundle {
	return domain.Bundle{AuthData: testCreds, InputData: input}
}
