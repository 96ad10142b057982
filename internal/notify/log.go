package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/radarlegislativo/ingest/internal/document"
)

// LogNotifier writes notification batches to the log. Used when no Pub/Sub
// topic is configured and during dry runs.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLog returns a LogNotifier.
func NewLog(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

// NotifyNewDocuments logs one line per channel batch.
func (n *LogNotifier) NotifyNewDocuments(_ context.Context, docs []document.Document) error {
	for channel, batch := range GroupByChannel(docs) {
		titles := make([]string, 0, len(batch))
		for _, doc := range batch {
			titles = append(titles, doc.Title)
		}
		n.logger.Info("new documents",
			zap.String("channel", channel),
			zap.Int("count", len(batch)),
			zap.Strings("titles", titles),
		)
	}
	return nil
}
