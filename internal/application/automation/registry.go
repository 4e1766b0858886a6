package automation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "github.com/erp/automation/internal/domain/automation"
	"github.com/erp/automation/internal/infrastructure/telemetry"
)

// Registry holds every trigger, action and search built from the resource
// table. It is immutable after construction.
type Registry struct {
	triggers []*Trigger
	actions  []*Action
	searches []*Search

	triggerByKey map[string]*Trigger
	actionByKey  map[string]*Action
	searchByKey  map[string]*Search

	webhookSecret string
}

// Option configures a Registry
type Option func(*registryOptions)

type registryOptions struct {
	logger        *zap.Logger
	metrics       *telemetry.AutomationMetrics
	webhookSecret string
	resources     []domain.Resource
}

// WithLogger sets the logger handlers fall back to when the context carries none
func WithLogger(l *zap.Logger) Option {
	return func(o *registryOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records invocation metrics
func WithMetrics(m *telemetry.AutomationMetrics) Option {
	return func(o *registryOptions) {
		o.metrics = m
	}
}

// WithWebhookSecret enables signature checks on pushed payloads
func WithWebhookSecret(secret string) Option {
	return func(o *registryOptions) {
		o.webhookSecret = secret
	}
}

// WithResources replaces the resource table, mainly for tests
func WithResources(resources []domain.Resource) Option {
	return func(o *registryOptions) {
		o.resources = resources
	}
}

// NewRegistry builds the handlers for every resource. Resources without
// backend events get no triggers.
func NewRegistry(requester domain.Requester, opts ...Option) *Registry {
	o := registryOptions{
		logger:    zap.NewNop(),
		resources: domain.Resources(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	inst := instrumentation{logger: o.logger, metrics: o.metrics}
	validate := validator.New()

	r := &Registry{
		triggerByKey:  make(map[string]*Trigger),
		actionByKey:   make(map[string]*Action),
		searchByKey:   make(map[string]*Search),
		webhookSecret: o.webhookSecret,
	}

	for _, res := range o.resources {
		if res.HasTriggers() {
			for _, event := range []domain.EventKind{domain.EventCreated, domain.EventUpdated} {
				t := newTrigger(res, event, requester, inst)
				r.triggers = append(r.triggers, t)
				r.triggerByKey[t.Key] = t
			}
		}
		for _, mode := range []ActionMode{ActionCreate, ActionUpdate} {
			if mode == ActionUpdate && len(res.UpdateFields) == 0 {
				continue
			}
			a := newAction(res, mode, requester, validate, inst)
			r.actions = append(r.actions, a)
			r.actionByKey[a.Key] = a
		}
		s := newSearch(res, requester, inst)
		r.searches = append(r.searches, s)
		r.searchByKey[s.Key] = s
	}
	return r
}

// Trigger resolves a trigger by key
func (r *Registry) Trigger(key string) (*Trigger, error) {
	if t, ok := r.triggerByKey[key]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: trigger %q", domain.ErrUnknownHandler, key)
}

// Action resolves an action by key
func (r *Registry) Action(key string) (*Action, error) {
	if a, ok := r.actionByKey[key]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: action %q", domain.ErrUnknownHandler, key)
}

// Search resolves a search by key
func (r *Registry) Search(key string) (*Search, error) {
	if s, ok := r.searchByKey[key]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: search %q", domain.ErrUnknownHandler, key)
}

// Triggers returns the triggers in resource table order
func (r *Registry) Triggers() []*Trigger { return append([]*Trigger(nil), r.triggers...) }

// Actions returns the actions in resource table order
func (r *Registry) Actions() []*Action { return append([]*Action(nil), r.actions...) }

// Searches returns the searches in resource table order
func (r *Registry) Searches() []*Search { return append([]*Search(nil), r.searches...) }

// SignatureRequired reports whether pushed payloads must carry a valid signature
func (r *Registry) SignatureRequired() bool {
	return r.webhookSecret != ""
}

// VerifyDelivery checks the signature of a pushed payload. It accepts
// everything when no webhook secret is configured.
func (r *Registry) VerifyDelivery(payload []byte, signature string) error {
	if !r.SignatureRequired() {
		return nil
	}
	return VerifySignature(payload, signature, r.webhookSecret)
}
