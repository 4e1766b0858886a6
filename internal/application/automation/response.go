package automation

import (
	"bytes"
	"encoding/json"
	"fmt"

	domain "github.com/erp/automation/internal/domain/automation"
)

// envelope is the backend response shape: RPC endpoints answer
// {"result":{"data":...}}, the webhook endpoints answer {"data":...}.
type envelope struct {
	Result *struct {
		Data json.RawMessage `json:"data"`
	} `json:"result"`
	Data json.RawMessage `json:"data"`
}

func decodeEnvelope(raw json.RawMessage) (envelope, error) {
	var env envelope
	if isAbsent(raw) {
		return env, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return env, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// resultRecord returns result.data, or an empty Record when the backend sent none
func resultRecord(raw json.RawMessage) (domain.Record, error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if env.Result == nil || isAbsent(env.Result.Data) {
		return domain.Record{}, nil
	}
	rec, err := domain.DecodeRecord(env.Result.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return rec, nil
}

// resultRecords returns result.data as a list. A missing or null value is an
// empty list and a single object is a list of one.
func resultRecords(raw json.RawMessage) ([]domain.Record, error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	if env.Result == nil || isAbsent(env.Result.Data) {
		return []domain.Record{}, nil
	}
	if isObject(env.Result.Data) {
		rec, err := domain.DecodeRecord(env.Result.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
		return []domain.Record{rec}, nil
	}
	records, err := domain.DecodeRecords(env.Result.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return records, nil
}

// subscriptionHandle returns the "data" object of a subscribe response, or the
// whole body when the backend answered with the subscription itself.
func subscriptionHandle(raw json.RawMessage) (domain.Record, error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return nil, err
	}
	body := raw
	if isObject(env.Data) {
		body = env.Data
	}
	if isAbsent(body) {
		return domain.Record{}, nil
	}
	rec, err := domain.DecodeRecord(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return rec, nil
}
