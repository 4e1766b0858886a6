package automation

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	domain "github.com/erp/automation/internal/domain/automation"
)

// Search looks up existing records of one resource. Zero, one and many
// matches are all valid results.
type Search struct {
	Key         string
	Label       string
	Description string
	Resource    domain.Resource
	Fields      []domain.Field

	requester domain.Requester
	inst      instrumentation
}

var searchDescriptions = map[string]string{
	"task":          "Finds a task by ID or external key.",
	"transaction":   "Finds a transaction by ID.",
	"ticket":        "Finds a ticket by ID or number.",
	"lead":          "Finds a lead by email or external key.",
	"contact":       "Finds a contact by email.",
	"employee":      "Finds an employee by email or employee ID.",
	"purchaseOrder": "Finds a purchase order by PO number.",
}

func newSearch(res domain.Resource, requester domain.Requester, inst instrumentation) *Search {
	desc := searchDescriptions[res.Name]
	if desc == "" {
		desc = "Finds a " + strings.ToLower(res.Noun) + "."
	}
	return &Search{
		Key:         "find" + res.Pascal(),
		Label:       "Find " + res.Noun,
		Description: desc,
		Resource:    res,
		Fields:      res.SearchFields,
		requester:   requester,
		inst:        inst,
	}
}

// Perform queries the backend with every non-empty input value as a parameter
func (s *Search) Perform(ctx context.Context, b domain.Bundle) ([]domain.Record, error) {
	var records []domain.Record
	err := s.inst.run(ctx, KindSearch, s.Key, "perform", func(ctx context.Context) error {
		raw, err := s.requester.Request(ctx, b.AuthData, domain.Request{
			Method: http.MethodGet,
			Path:   s.Resource.SearchPath(),
			Params: searchParams(b.InputData),
		})
		if err != nil {
			return err
		}
		records, err = resultRecords(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func searchParams(input domain.Record) url.Values {
	params := url.Values{}
	for k := range input {
		if v := input.String(k); strings.TrimSpace(v) != "" {
			params.Set(k, v)
		}
	}
	return params
}
