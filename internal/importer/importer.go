package importer

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/hmoreau/linkshelf/internal/domain"
	"github.com/hmoreau/linkshelf/internal/logger"
	"github.com/hmoreau/linkshelf/internal/store"
)

// BatchSize is the fixed number of bookmarks submitted per insert. Batch
// boundaries only bound payload size; they carry no semantic meaning.
const BatchSize = 100

// BatchResult is the outcome of one insert batch.
type BatchResult struct {
	Batch    int    `json:"batch"` // 1-based position in submission order
	Size     int    `json:"size"`
	Inserted int    `json:"inserted"`
	Error    string `json:"error,omitempty"`
}

// Report summarizes a whole import run. Batches that failed stay failed;
// earlier committed batches are never rolled back, so Imported can be
// smaller than Total - the caller must surface that to the user.
type Report struct {
	Total    int           `json:"total"`
	Imported int           `json:"imported"`
	Failed   int           `json:"failed"`
	Batches  []BatchResult `json:"batches"`
}

// Importer submits candidate streams to the bookmark store.
type Importer struct {
	bookmarks store.Bookmarks
	logger    logger.Logger
}

func New(bookmarks store.Bookmarks, log logger.Logger) *Importer {
	return &Importer{bookmarks: bookmarks, logger: log}
}

// Run drains the candidate sequence into sequential batches of BatchSize
// and inserts them one at a time. A failed batch is recorded and the run
// continues with the next batch.
func (im *Importer) Run(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID, candidates iter.Seq[Candidate]) Report {
	var report Report
	batch := make([]*domain.Bookmark, 0, BatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		result := BatchResult{
			Batch: len(report.Batches) + 1,
			Size:  len(batch),
		}
		if err := im.bookmarks.CreateBatch(ctx, batch); err != nil {
			result.Error = err.Error()
			report.Failed += len(batch)
			im.logger.Warn("import batch failed",
				logger.Int("batch", result.Batch),
				logger.Int("size", result.Size),
				logger.Error(err))
		} else {
			result.Inserted = len(batch)
			report.Imported += len(batch)
		}
		report.Batches = append(report.Batches, result)
		batch = batch[:0]
	}

	for c := range candidates {
		report.Total++
		batch = append(batch, candidateBookmark(c, userID, collectionID))
		if len(batch) == BatchSize {
			flush()
		}
	}
	flush()

	im.logger.Info("import finished",
		logger.Int("total", report.Total),
		logger.Int("imported", report.Imported),
		logger.Int("failed", report.Failed),
		logger.Int("batches", len(report.Batches)))
	return report
}

func candidateBookmark(c Candidate, userID uuid.UUID, collectionID *uuid.UUID) *domain.Bookmark {
	title := c.Title
	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return &domain.Bookmark{
		ID:           uuid.New(),
		CollectionID: collectionID,
		UserID:       userID,
		URL:          c.URL,
		Title:        &title,
		Tags:         c.Tags,
		CreatedAt:    created,
	}
}
