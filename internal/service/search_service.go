package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dcrew/floortrack/internal/domain"
	"github.com/dcrew/floortrack/internal/logger"
	"github.com/dcrew/floortrack/pkg/dataflow"
)

// ErrSearchDisabled is returned when no identity index is configured.
var ErrSearchDisabled = errors.New("identity search is not configured")

const reindexBatchSize = 200

// SearchService looks employees up by name for manual check-in.
type SearchService struct {
	registry *Registry
	index    domain.IdentityIndex
	clock    domain.Clock
}

// NewSearchService creates a SearchService. A nil index disables search.
func NewSearchService(registry *Registry, index domain.IdentityIndex, clock domain.Clock) *SearchService {
	return &SearchService{registry: registry, index: index, clock: clock}
}

func (s *SearchService) Search(ctx context.Context, name string) ([]domain.EmployeeDoc, error) {
	if s.index == nil {
		return nil, ErrSearchDisabled
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidation("q", "is required")
	}
	docs, err := s.index.SearchEmployeesByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []domain.EmployeeDoc{}
	}
	return docs, nil
}

// Reindex pushes every employee in the registry to the index in bulk batches.
// It returns the number of documents indexed.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, ErrSearchDisabled
	}
	employees, err := s.registry.Snapshot(ctx)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	now := s.clock.Now()
	// nameless entries have nothing to search by
	named := dataflow.Filter(ctx, dataflow.From(ctx, employees...), func(e domain.Employee) bool {
		return strings.TrimSpace(e.Name) != ""
	})
	docs := dataflow.Map(ctx, named, func(e domain.Employee) (domain.EmployeeDoc, error) {
		return toEmployeeDoc(e, now), nil
	})

	indexed := 0
	err = dataflow.ForEach(ctx, dataflow.Batch(ctx, docs, reindexBatchSize), func(batch []domain.EmployeeDoc) error {
		if err := s.index.BulkIndexEmployees(ctx, batch); err != nil {
			return err
		}
		indexed += len(batch)
		return nil
	},
		dataflow.WithRetry(2, dataflow.ConstantBackoff(200*time.Millisecond)),
		// a batch that exhausted its retries ends the run
		dataflow.WithErrorHandler(func(error) bool {
			cancel()
			return false
		}),
	)
	if err != nil {
		logger.ErrorLog(ctx, err, "reindex stopped after %d documents", indexed)
		return indexed, err
	}
	logger.InfoLog(ctx, "reindexed %d employees", indexed)
	return indexed, nil
}
