// audit/repository.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

const changeIndex = "flag-audit"

type Repository interface {
	LogChange(ctx context.Context, change FlagChange) error
	QueryChanges(ctx context.Context, query ChangeQuery) ([]FlagChange, error)
}

type ElasticsearchRepository struct {
	esClient *elasticsearch.Client
}

// NewElasticsearchRepository creates a new repository with a given Elasticsearch client URL.
func NewElasticsearchRepository(esURL string) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchRepository{esClient: esClient}, nil
}

// LogChange indexes one flag mutation.
func (r *ElasticsearchRepository) LogChange(ctx context.Context, change FlagChange) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      changeIndex,
		DocumentID: uuid.New().String(),
		Body:       strings.NewReader(string(data)),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, r.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// QueryChanges searches the audit trail within a time frame, optionally
// filtered by actor and flag key.
func (r *ElasticsearchRepository) QueryChanges(ctx context.Context, query ChangeQuery) ([]FlagChange, error) {
	must := []interface{}{
		map[string]interface{}{
			"range": map[string]interface{}{
				"timestamp": map[string]interface{}{
					"gte": query.From.Format(time.RFC3339),
					"lte": query.To.Format(time.RFC3339),
				},
			},
		},
	}
	if query.ActorID != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"actor_id": query.ActorID},
		})
	}
	if query.FlagKey != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"flag_key": query.FlagKey},
		})
	}

	body := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}

	var buf strings.Builder
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	opts := []func(*esapi.SearchRequest){
		r.esClient.Search.WithContext(ctx),
		r.esClient.Search.WithIndex(changeIndex),
		r.esClient.Search.WithBody(strings.NewReader(buf.String())),
	}
	if query.Offset > 0 {
		opts = append(opts, r.esClient.Search.WithFrom(query.Offset))
	}
	if query.Limit > 0 {
		opts = append(opts, r.esClient.Search.WithSize(query.Limit))
	}

	res, err := r.esClient.Search(opts...)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching documents: %s", res.String())
	}

	var rmap map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&rmap); err != nil {
		return nil, err
	}

	hits := rmap["hits"].(map[string]interface{})["hits"].([]interface{})
	changes := make([]FlagChange, len(hits))
	for i, hit := range hits {
		source := hit.(map[string]interface{})["_source"]
		data, _ := json.Marshal(source)
		json.Unmarshal(data, &changes[i])
	}

	return changes, nil
}
