package automation

import (
	domain "github.com/erp/automation/internal/domain/automation"
)

// Entry describes one handler for display in the host platform
type Entry struct {
	Key          string         `json:"key"`
	Kind         Kind           `json:"kind"`
	Noun         string         `json:"noun"`
	Label        string         `json:"label"`
	Description  string         `json:"description"`
	Event        string         `json:"event,omitempty"`
	Important    bool           `json:"important,omitempty"`
	InputFields  []domain.Field `json:"inputFields"`
	OutputFields []domain.Field `json:"outputFields"`
	Sample       domain.Record  `json:"sample"`
}

// Catalog lists every handler the registry serves
type Catalog struct {
	Triggers []Entry `json:"triggers"`
	Actions  []Entry `json:"actions"`
	Searches []Entry `json:"searches"`
}

// Size returns the total number of handlers
func (c Catalog) Size() int {
	return len(c.Triggers) + len(c.Actions) + len(c.Searches)
}

// Catalog builds the display metadata of every handler
func (r *Registry) Catalog() Catalog {
	c := Catalog{
		Triggers: make([]Entry, 0, len(r.triggers)),
		Actions:  make([]Entry, 0, len(r.actions)),
		Searches: make([]Entry, 0, len(r.searches)),
	}
	for _, t := range r.triggers {
		c.Triggers = append(c.Triggers, Entry{
			Key:          t.Key,
			Kind:         KindTrigger,
			Noun:         t.Resource.Noun,
			Label:        t.Label,
			Description:  t.Description,
			Event:        t.EventName(),
			Important:    t.Event == domain.EventCreated,
			InputFields:  []domain.Field{},
			OutputFields: t.Resource.OutputFields,
			Sample:       t.Resource.SampleRecord(),
		})
	}
	for _, a := range r.actions {
		c.Actions = append(c.Actions, Entry{
			Key:          a.Key,
			Kind:         KindAction,
			Noun:         a.Resource.Noun,
			Label:        a.Label,
			Description:  a.Description,
			InputFields:  a.Fields,
			OutputFields: a.Resource.OutputFields,
			Sample:       a.Resource.SampleRecord(),
		})
	}
	for _, s := range r.searches {
		c.Searches = append(c.Searches, Entry{
			Key:          s.Key,
			Kind:         KindSearch,
			Noun:         s.Resource.Noun,
			Label:        s.Label,
			Description:  s.Description,
			InputFields:  s.Fields,
			OutputFields: s.Resource.OutputFields,
			Sample:       s.Resource.SampleRecord(),
		})
	}
	return c
}
