// audit/indexer.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	logger "github.com/revguard/api/logging"
	"github.com/revguard/api/metrics"
	"github.com/revguard/api/util"
)

// ElasticsearchIndexer mirrors audit entries into a search index for
// operations tooling. The relational table stays authoritative; indexing is
// best-effort and runs off the request path via the event bus.
type ElasticsearchIndexer struct {
	esClient *elasticsearch.Client
	index    string
}

// NewElasticsearchIndexer creates an indexer against the given cluster URL.
func NewElasticsearchIndexer(esURL, index string) (*ElasticsearchIndexer, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{esURL},
	}
	esClient, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &ElasticsearchIndexer{esClient: esClient, index: index}, nil
}

// Index writes one entry document, keyed by the entry ID so replays
// are idempotent.
func (ix *ElasticsearchIndexer) Index(ctx context.Context, entry Log) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      ix.index,
		DocumentID: entry.ID.String(),
		Body:       strings.NewReader(string(data)),
	}

	res, err := req.Do(ctx, ix.esClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}

	return nil
}

// HandleRecorded is the event-bus subscriber for recorded audit entries.
// Failures are counted and logged, never propagated to the recorder.
func (ix *ElasticsearchIndexer) HandleRecorded(ctx context.Context, event util.Event) error {
	entry, ok := event.Payload.(Log)
	if !ok {
		return fmt.Errorf("unexpected payload type %T for %s", event.Payload, event.Type)
	}
	if err := ix.Index(ctx, entry); err != nil {
		metrics.AuditIndexFailures.Inc()
		logger.Warn("Failed to index audit entry",
			zap.Error(err),
			zap.String("entryID", entry.ID.String()))
	}
	return nil
}
