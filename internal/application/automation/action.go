package automation

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	domain "github.com/erp/automation/internal/domain/automation"
)

// ActionMode is the mutation an action performs
type ActionMode string

const (
	ActionCreate ActionMode = "create"
	ActionUpdate ActionMode = "update"
)

// Action relays a create or update of one resource to the backend. Input is
// checked against the resource fields before the call and every call carries
// a fresh Idempotency-Key.
type Action struct {
	Key         string
	Label       string
	Description string
	Resource    domain.Resource
	Mode        ActionMode
	Fields      []domain.Field

	requester domain.Requester
	validate  *validator.Validate
	inst      instrumentation
}

func newAction(res domain.Resource, mode ActionMode, requester domain.Requester, validate *validator.Validate, inst instrumentation) *Action {
	a := &Action{
		Resource:  res,
		Mode:      mode,
		requester: requester,
		validate:  validate,
		inst:      inst,
	}
	noun := strings.ToLower(res.Noun)
	switch mode {
	case ActionUpdate:
		a.Key = "update" + res.Pascal()
		a.Label = "Update " + res.Noun
		a.Description = "Updates an existing " + noun + "."
		a.Fields = res.UpdateFields
	default:
		a.Key = "create" + res.Pascal()
		a.Label = "Create " + res.Noun
		a.Description = createDescriptions[res.Name]
		if a.Description == "" {
			a.Description = "Creates a new " + noun + "."
		}
		a.Fields = res.CreateFields
	}
	return a
}

var createDescriptions = map[string]string{
	"task":          "Creates a new task in the ERP system.",
	"transaction":   "Creates a new financial transaction.",
	"ticket":        "Creates a new support ticket.",
	"lead":          "Creates a new sales lead.",
	"contact":       "Creates a new contact.",
	"employee":      "Creates a new employee record.",
	"purchaseOrder": "Creates a new purchase order.",
}

// Perform validates bundle.InputData and sends it to the backend. It returns
// the entity the backend echoed, or an empty Record when it echoed nothing.
func (a *Action) Perform(ctx context.Context, b domain.Bundle) (domain.Record, error) {
	var out domain.Record
	err := a.inst.run(ctx, KindAction, a.Key, "perform", func(ctx context.Context) error {
		body, err := a.Prepare(b.InputData)
		if err != nil {
			return err
		}

		req := domain.Request{
			Method:  http.MethodPost,
			Path:    a.Resource.CreatePath(),
			Body:    body,
			Headers: map[string]string{domain.IdempotencyKeyHeader: domain.NewIdempotencyKey()},
		}
		if a.Mode == ActionUpdate {
			req.Method = http.MethodPut
			req.Path = a.Resource.UpdatePath()
		}

		raw, err := a.requester.Request(ctx, b.AuthData, req)
		if err != nil {
			return err
		}
		out, err = resultRecord(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Prepare checks input against the action fields and returns the request
// body. Keys the action does not describe are passed through unchanged.
// Integer and money fields given as strings are converted to JSON numbers.
func (a *Action) Prepare(input domain.Record) (domain.Record, error) {
	body := make(domain.Record, len(input))
	for k, v := range input {
		body[k] = v
	}

	for _, f := range a.Fields {
		value := input.String(f.Key)
		if strings.TrimSpace(value) == "" {
			if f.Required {
				return nil, domain.NewValidationError(f.Key, "is required")
			}
			continue
		}

		normalized, err := a.checkField(f, input[f.Key], value)
		if err != nil {
			return nil, err
		}
		if normalized != nil {
			body[f.Key] = normalized
		}
	}
	return body, nil
}

// checkField validates one non-empty value. It returns the value to send when
// it differs from the input.
func (a *Action) checkField(f domain.Field, raw any, value string) (any, error) {
	if len(f.Choices) > 0 {
		if err := a.validate.Var(value, "oneof="+strings.Join(f.Choices, " ")); err != nil {
			return nil, domain.NewValidationError(f.Key, "must be one of: "+strings.Join(f.Choices, ", "))
		}
		return nil, nil
	}

	switch f.Type {
	case domain.FieldEmail:
		if err := a.validate.Var(value, "email"); err != nil {
			return nil, domain.NewValidationError(f.Key, "must be a valid email address")
		}
	case domain.FieldInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, domain.NewValidationError(f.Key, "must be an integer")
		}
		if _, ok := raw.(string); ok {
			return json.Number(strconv.FormatInt(n, 10)), nil
		}
	case domain.FieldMoney:
		amount, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, domain.NewValidationError(f.Key, "must be a number of minor currency units")
		}
		if !amount.IsInteger() {
			return nil, domain.NewValidationError(f.Key, "must be an integer amount of minor currency units")
		}
		return json.Number(amount.String()), nil
	case domain.FieldBoolean:
		flag, err := strconv.ParseBool(value)
		if err != nil {
			return nil, domain.NewValidationError(f.Key, "must be true or false")
		}
		if _, ok := raw.(string); ok {
			return flag, nil
		}
	}
	return nil, nil
}
