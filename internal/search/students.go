package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/netra/internal/models"
)

var ErrSearch = errors.New("search backend error")

type document struct {
	RollNo       string  `json:"roll_no"`
	Name         string  `json:"name"`
	StudentClass string  `json:"student_class"`
	ParentPhone  string  `json:"parent_phone"`
	Department   *string `json:"department,omitempty"`
}

func toDocument(s models.Student) document {
	return document{
		RollNo:       s.RollNo,
		Name:         s.Name,
		StudentClass: s.StudentClass,
		ParentPhone:  s.ParentPhone,
		Department:   s.Department,
	}
}

func (d document) student() models.Student {
	return models.Student{
		RollNo:       d.RollNo,
		Name:         d.Name,
		StudentClass: d.StudentClass,
		ParentPhone:  d.ParentPhone,
		Department:   d.Department,
	}
}

type Client struct {
	ES    *elasticsearch.Client
	Index string
}

func NewClient(url, user, password, index string) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{ES: es, Index: index}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	res, err := c.ES.Info(c.ES.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: info: %w", ErrSearch, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%w: info: %s: %s", ErrSearch, res.Status(), body)
	}
	return nil
}

func buildQuery(query string, department *string, from, size int) map[string]any {
	boolQuery := map[string]any{
		"must": []any{
			map[string]any{
				"multi_match": map[string]any{
					"query":     query,
					"fields":    []string{"name^2", "roll_no", "student_class"},
					"fuzziness": "AUTO",
				},
			},
		},
	}
	if department != nil {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{"department.keyword": *department}},
		}
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"from":  from,
		"size":  size,
		"sort":  []any{"_score", map[string]any{"roll_no.keyword": "asc"}},
	}
}

func (c *Client) SearchStudents(ctx context.Context, query string, department *string, from, size int) (int64, []models.Student, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(buildQuery(query, department, from, size)); err != nil {
		return 0, nil, fmt.Errorf("%w: encode query: %w", ErrSearch, err)
	}

	res, err := c.ES.Search(
		c.ES.Search.WithContext(ctx),
		c.ES.Search.WithIndex(c.Index),
		c.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("%w: %s", ErrSearch, res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("%w: decode: %w", ErrSearch, err)
	}

	students := make([]models.Student, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		students[i] = hit.Source.student()
	}
	return r.Hits.Total.Value, students, nil
}

// IndexStudents upserts one document per student, keyed by roll number.
func (c *Client) IndexStudents(ctx context.Context, students []models.Student) error {
	for _, s := range students {
		body, err := json.Marshal(toDocument(s))
		if err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrSearch, s.RollNo, err)
		}
		res, err := c.ES.Index(
			c.Index,
			bytes.NewReader(body),
			c.ES.Index.WithContext(ctx),
			c.ES.Index.WithDocumentID(s.RollNo),
		)
		if err != nil {
			return fmt.Errorf("%w: index %s: %w", ErrSearch, s.RollNo, err)
		}
		isErr, status := res.IsError(), res.Status()
		res.Body.Close()
		if isErr {
			return fmt.Errorf("%w: index %s: %s", ErrSearch, s.RollNo, status)
		}
	}

	res, err := c.ES.Indices.Refresh(
		c.ES.Indices.Refresh.WithContext(ctx),
		c.ES.Indices.Refresh.WithIndex(c.Index),
	)
	if err != nil {
		return fmt.Errorf("%w: refresh: %w", ErrSearch, err)
	}
	isErr, status := res.IsError(), res.Status()
	res.Body.Close()
	if isErr {
		return fmt.Errorf("%w: refresh: %s", ErrSearch, status)
	}
	return nil
}
