// Package search keeps an Elasticsearch directory of accounts for the
// /users/search endpoint.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/lingo-account/internal/domain/entity"
	"github.com/oksasatya/lingo-account/internal/domain/repository"
)

const (
	DefaultSize = 10
	MaxSize     = 50

	requestTimeout = 3 * time.Second
)

type ESIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewESIndex(es *elasticsearch.Client, index string) *ESIndex {
	return &ESIndex{es: es, index: index}
}

var _ repository.AccountIndex = (*ESIndex)(nil)

type document struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarRef *string `json:"avatar_ref"`
}

func (x *ESIndex) Index(ctx context.Context, a entity.AccountSummary) error {
	body, err := json.Marshal(document{ID: a.ID, Name: a.Name, Email: a.Email, AvatarRef: a.AvatarRef})
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: a.ID, Body: bytes.NewReader(body), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over email and name. size is clamped to
// [1, MaxSize] with DefaultSize for out-of-range values.
func (x *ESIndex) Search(ctx context.Context, q string, size int) ([]entity.AccountSummary, error) {
	if size <= 0 || size > MaxSize {
		size = DefaultSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}

	out := make([]entity.AccountSummary, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		d := h.Source
		out = append(out, entity.AccountSummary{ID: d.ID, Name: d.Name, Email: d.Email, AvatarRef: d.AvatarRef})
	}
	return out, nil
}

// Noop stands in when ES_ENABLED is false.
type Noop struct{}

var _ repository.AccountIndex = Noop{}

func (Noop) Index(context.Context, entity.AccountSummary) error { return nil }

func (Noop) Search(context.Context, string, int) ([]entity.AccountSummary, error) {
	return []entity.AccountSummary{}, nil
}
