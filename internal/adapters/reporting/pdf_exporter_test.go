package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secure-shed/shedctl/internal/core/domain"
)

func TestExportLogReportProducesPDF(t *testing.T) {
	exporter := NewPDFExporter()

	data, err := exporter.ExportLogReport("Central Controller Logs", []domain.LogEntry{
		{Timestamp: 1700000000, Level: domain.LogInfo, Message: "the alarm has been activated"},
		{Timestamp: 1700000010, Level: domain.LogCritical, Message: "alarm has been triggered"},
	})

	require.NoError(t, err)
	assert.Greater(t, len(data), 500)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestExportLogReportWithNoEntries(t *testing.T) {
	exporter := NewPDFExporter()

	data, err := exporter.ExportLogReport("Empty", nil)

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}
