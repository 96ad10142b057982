package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radarlegislativo/ingest/internal/document"
)

func TestGroupByChannel(t *testing.T) {
	t.Parallel()

	docs := []document.Document{
		{URL: "https://www.parlamento.pt/a", Channel: document.ChannelParliament},
		{URL: "https://www.ordemdosmedicos.pt/b", Channel: document.ChannelStakeholders},
		{URL: "https://www.parlamento.pt/c", Channel: document.ChannelParliament},
		{URL: "https://example.com/d"},
	}

	groups := GroupByChannel(docs)
	require.Len(t, groups, 2)
	require.Len(t, groups[document.ChannelParliament], 3)
	require.Len(t, groups[document.ChannelStakeholders], 1)
	require.Equal(t, "https://www.parlamento.pt/a", groups[document.ChannelParliament][0].URL)
	require.Equal(t, "https://example.com/d", groups[document.ChannelParliament][2].URL)
}

func TestLogNotifierNeverFails(t *testing.T) {
	t.Parallel()

	n := NewLog(zap.NewNop())
	err := n.NotifyNewDocuments(context.Background(), []document.Document{
		{Title: "Agenda da reunião plenária", Channel: document.ChannelParliament},
	})
	require.NoError(t, err)
}
