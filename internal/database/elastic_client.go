package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/olivere/elastic/v7"
)

// DefaultEmployeeIndex is the index holding employee identity documents.
const DefaultEmployeeIndex = "floortrack-employees"

const employeeMapping = `{
	"mappings": {
		"properties": {
			"id":         {"type": "integer"},
			"name":       {"type": "text", "fields": {"keyword": {"type": "keyword"}}},
			"age":        {"type": "integer"},
			"department": {"type": "keyword"},
			"working":    {"type": "boolean"},
			"indexed_at": {"type": "date"}
		}
	}
}`

// ElasticSearchClient wraps olivere/elastic client and implements domain.IdentityIndex.
type ElasticSearchClient struct {
	client *elastic.Client
	index  string
}

// NewElasticSearchClient connects to an Elasticsearch 7.x cluster at url and makes sure
// the employee index exists.
func NewElasticSearchClient(ctx context.Context, url, index string) (*ElasticSearchClient, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false), // Essential when using Docker or cloud
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	if index == "" {
		index = DefaultEmployeeIndex
	}
	es := &ElasticSearchClient{client: client, index: index}
	if err := es.ensureIndex(ctx); err != nil {
		client.Stop()
		return nil, err
	}
	return es, nil
}

func (es *ElasticSearchClient) ensureIndex(ctx context.Context) error {
	exists, err := es.client.IndexExists(es.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", es.index, err)
	}
	if exists {
		return nil
	}
	if _, err := es.client.CreateIndex(es.index).BodyString(employeeMapping).Do(ctx); err != nil {
		return fmt.Errorf("failed to create index %s: %w", es.index, err)
	}
	return nil
}

// IndexEmployee indexes an employee document using its id as document id.
func (es *ElasticSearchClient) IndexEmployee(ctx context.Context, doc domain.EmployeeDoc) error {
	_, err := es.client.Index().
		Index(es.index).
		Id(strconv.Itoa(doc.ID)).
		BodyJson(doc).
		Refresh("true"). // Make changes immediately searchable
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index employee %d: %w", doc.ID, err)
	}
	return nil
}

// SearchEmployeesByName performs a fuzzy full-text match on the employee name.
func (es *ElasticSearchClient) SearchEmployeesByName(ctx context.Context, name string) ([]domain.EmployeeDoc, error) {
	query := elastic.NewMatchQuery("name", name).Fuzziness("AUTO")

	searchResult, err := es.client.Search().
		Index(es.index).
		Query(query).
		Size(50).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	docs := make([]domain.EmployeeDoc, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		var doc domain.EmployeeDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode hit %s: %w", hit.Id, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// BulkIndexEmployees indexes a batch of employees in one request.
func (es *ElasticSearchClient) BulkIndexEmployees(ctx context.Context, docs []domain.EmployeeDoc) error {
	bulkRequest := es.client.Bulk()
	for _, doc := range docs {
		bulkRequest = bulkRequest.Add(elastic.NewBulkIndexRequest().
			Index(es.index).
			Id(strconv.Itoa(doc.ID)).
			Doc(doc))
	}

	if bulkRequest.NumberOfActions() == 0 {
		return nil
	}

	bulkResponse, err := bulkRequest.Refresh("true").Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}

	if bulkResponse.Errors {
		for _, item := range bulkResponse.Failed() {
			if item.Error != nil {
				return fmt.Errorf("bulk item %s failed: %s", item.Id, item.Error.Reason)
			}
		}
	}
	return nil
}

// Close releases the client's background resources.
func (es *ElasticSearchClient) Close() {
	es.client.Stop()
}
