package automation

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	domain "github.com/erp/automation/internal/domain/automation"
)

const (
	// SubscribePath registers a webhook target at the backend
	SubscribePath = "/api/webhooks/subscribe"
	webhooksPath  = "/api/webhooks/"
)

// Trigger watches one resource for one kind of change. The backend pushes
// events to a subscribed target URL; List is the polling fallback and the
// sample source.
type Trigger struct {
	Key         string
	Label       string
	Description string
	Resource    domain.Resource
	Event       domain.EventKind

	requester domain.Requester
	inst      instrumentation
}

func newTrigger(res domain.Resource, event domain.EventKind, requester domain.Requester, inst instrumentation) *Trigger {
	noun := strings.ToLower(res.Noun)
	t := &Trigger{
		Resource:  res,
		Event:     event,
		requester: requester,
		inst:      inst,
	}
	switch event {
	case domain.EventUpdated:
		t.Key = res.Name + "Updated"
		t.Label = res.Noun + " Updated"
		t.Description = "Triggers when a " + noun + " is updated."
	default:
		t.Key = "new" + res.Pascal()
		t.Label = "New " + res.Noun
		t.Description = "Triggers when a new " + noun + " is created."
	}
	return t
}

// EventName returns the backend event this trigger subscribes to, e.g. "task.created"
func (t *Trigger) EventName() string {
	return t.Resource.EventName(t.Event)
}

// Subscribe registers bundle.TargetURL for this trigger's event and returns
// the subscription handle. Repeated calls create repeated subscriptions.
func (t *Trigger) Subscribe(ctx context.Context, b domain.Bundle) (domain.Record, error) {
	var handle domain.Record
	err := t.inst.run(ctx, KindTrigger, t.Key, "subscribe", func(ctx context.Context) error {
		if strings.TrimSpace(b.TargetURL) == "" {
			return domain.ErrMissingTargetURL
		}
		raw, err := t.requester.Request(ctx, b.AuthData, domain.Request{
			Method: http.MethodPost,
			Path:   SubscribePath,
			Body: map[string]string{
				"targetUrl": b.TargetURL,
				"event":     t.EventName(),
			},
		})
		if err != nil {
			return err
		}
		handle, err = subscriptionHandle(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return handle, nil
}

// Unsubscribe deletes the subscription named by bundle.SubscribeData. It is
// best effort: a failure is returned as is and never retried.
func (t *Trigger) Unsubscribe(ctx context.Context, b domain.Bundle) (domain.Record, error) {
	err := t.inst.run(ctx, KindTrigger, t.Key, "unsubscribe", func(ctx context.Context) error {
		id := b.SubscribeData.ID()
		if id == "" {
			return domain.ErrMissingSubscribeID
		}
		_, err := t.requester.Request(ctx, b.AuthData, domain.Request{
			Method: http.MethodDelete,
			Path:   webhooksPath + url.PathEscape(id),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return domain.Record{}, nil
}

// List polls the most recent records ordered by the trigger's timestamp, newest first
func (t *Trigger) List(ctx context.Context, b domain.Bundle) ([]domain.Record, error) {
	var records []domain.Record
	err := t.inst.run(ctx, KindTrigger, t.Key, "list", func(ctx context.Context) error {
		var err error
		records, err = t.list(ctx, b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Perform returns the pushed payload as a single record when the host
// delivered one, without calling the backend. Otherwise it polls like List.
func (t *Trigger) Perform(ctx context.Context, b domain.Bundle) ([]domain.Record, error) {
	var records []domain.Record
	err := t.inst.run(ctx, KindTrigger, t.Key, "perform", func(ctx context.Context) error {
		if b.HasDelivery() {
			rec, err := domain.DecodeRecord(b.CleanedRequest)
			if err != nil {
				return domain.NewValidationError("cleanedRequest", "must be a JSON object")
			}
			records = []domain.Record{rec}
			return nil
		}
		var err error
		records, err = t.list(ctx, b)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (t *Trigger) list(ctx context.Context, b domain.Bundle) ([]domain.Record, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(b.Limit()))
	params.Set("page", strconv.Itoa(max(b.Meta.Page, 0)))
	params.Set("sort", t.Event.SortField()+":desc")

	raw, err := t.requester.Request(ctx, b.AuthData, domain.Request{
		Method: http.MethodGet,
		Path:   t.Resource.ListPath(),
		Params: params,
	})
	if err != nil {
		return nil, err
	}
	return resultRecords(raw)
}

// Delivery pairs a trigger record with its advisory dedupe key
type Delivery struct {
	DedupeKey string        `json:"dedupeKey"`
	Record    domain.Record `json:"record"`
}

// Deliveries annotates records with their dedupe keys, preserving order
func Deliveries(records []domain.Record) []Delivery {
	out := make([]Delivery, len(records))
	for i, rec := range records {
		out[i] = Delivery{DedupeKey: domain.DedupeKey(rec), Record: rec}
	}
	return out
}
