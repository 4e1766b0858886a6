package automation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domain "github.com/erp/automation/internal/domain/automation"
)

func TestSearch_Keys(t *testing.T) {
	r := NewRegistry(&MockRequester{})

	var keys []string
	for _, s := range r.Searches() {
		keys = append(keys, s.Key)
	}
	assert.Equal(t, []string{
		"findTask", "findTransaction", "findTicket", "findLead",
		"findContact", "findEmployee", "findPurchaseOrder",
	}, keys)
}

func TestSearch_FindContact_NoMatch(t *testing.T) {
	req := &MockRequester{}
	captured := req.expect(`{"result":{"data":[]}}`, nil)

	s, err := NewRegistry(req).Search("findContact")
	require.NoError(t, err)

	records, err := s.Perform(context.Background(), bundle(domain.Record{"email": "a@b.com"}))
	require.NoError(t, err)

	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Equal(t, "GET", captured.Method)
	assert.Equal(t, "/api/trpc/contacts.search", captured.Path)
	assert.Equal(t, "email=a%40b.com", captured.Params.Encode())
	assert.Nil(t, captured.Body)
}

func TestSearch_Results(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"many", `{"result":{"data":[{"id":1},{"id":2}]}}`, []string{"1", "2"}},
		{"single object", `{"result":{"data":{"id":3}}}`, []string{"3"}},
		{"null data", `{"result":{"data":null}}`, []string{}},
		{"no result", `{}`, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &MockRequester{}
			req.expect(tt.body, nil)
			s, _ := NewRegistry(req).Search("findPurchaseOrder")

			records, err := s.Perform(context.Background(), bundle(domain.Record{"poNumber": "PO-1"}))
			require.NoError(t, err)

			ids := []string{}
			for _, r := range records {
				ids = append(ids, r.ID())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearch_SkipsEmptyInputs(t *testing.T) {
	req := &MockRequester{}
	captured := req.expect(`{"result":{"data":[]}}`, nil)
	s, _ := NewRegistry(req).Search("findEmployee")

	_, err := s.Perform(context.Background(), bundle(domain.Record{
		"id":         json.Number("12"),
		"email":      "",
		"employeeId": nil,
	}))
	require.NoError(t, err)

	assert.Equal(t, "id=12", captured.Params.Encode())
}

func TestSearch_TransportErrorPropagates(t *testing.T) {
	transportErr := errors.New("dial tcp: connection refused")
	req := &MockRequester{}
	req.expect("", transportErr)
	s, _ := NewRegistry(req).Search("findTask")

	_, err := s.Perform(context.Background(), bundle(domain.Record{"id": "1"}))
	assert.ErrorIs(t, err, transportErr)
	req.AssertNumberOfCalls(t, "Request", 1)
}

// Every handler surfaces 401 as AuthenticationError and 429 as ThrottledError.
func TestHandlers_AuthAndThrottleErrors(t *testing.T) {
	failures := map[string]error{
		"unauthorized": domain.NewRefreshRequiredError(),
		"throttled":    domain.NewThrottledError(0),
	}

	validInput := map[string]domain.Record{}
	for _, res := range domain.Resources() {
		validInput["create"+res.Pascal()] = requiredInput(res.CreateFields)
		validInput["update"+res.Pascal()] = requiredInput(res.UpdateFields)
	}

	for name, failure := range failures {
		t.Run(name, func(t *testing.T) {
			req := &MockRequester{}
			req.On("Request", mock.Anything, mock.Anything, mock.Anything).Return(nil, failure)
			r := NewRegistry(req)
			ctx := context.Background()

			check := func(t *testing.T, err error) {
				t.Helper()
				var authErr *domain.AuthenticationError
				var throttled *domain.ThrottledError
				var apiErr *domain.APIError
				assert.False(t, errors.As(err, &apiErr), "must not surface as APIError")
				if name == "unauthorized" {
					require.ErrorAs(t, err, &authErr)
					assert.True(t, authErr.RefreshRequired)
				} else {
					require.ErrorAs(t, err, &throttled)
					assert.Equal(t, domain.MessageThrottled, throttled.Message)
				}
			}

			for _, tr := range r.Triggers() {
				_, err := tr.List(ctx, bundle(nil))
				check(t, err)
			}
			for _, a := range r.Actions() {
				input := validInput[a.Key]
				_, err := a.Prepare(input)
				require.NoError(t, err, a.Key)
				_, err = a.Perform(ctx, bundle(input))
				check(t, err)
			}
			for _, s := range r.Searches() {
				_, err := s.Perform(ctx, bundle(domain.Record{"id": "1"}))
				check(t, err)
			}

			calls := len(r.Triggers()) + len(r.Actions()) + len(r.Searches())
			req.AssertNumberOfCalls(t, "Request", calls)
		})
	}
}

// requiredInput fills every required field with a value that passes validation
func requiredInput(fields []domain.Field) domain.Record {
	input := domain.Record{}
	for _, f := range fields {
		if f.Required {
			input[f.Key] = sampleValue(f)
		}
	}
	return input
}

func sampleValue(f domain.Field) any {
	if len(f.Choices) > 0 {
		return f.Choices[0]
	}
	switch f.Type {
	case domain.FieldInteger, domain.FieldMoney:
		return json.Number("100")
	case domain.FieldEmail:
		return "someone@example.com"
	case domain.FieldBoolean:
		return true
	default:
		return "value"
	}
}
