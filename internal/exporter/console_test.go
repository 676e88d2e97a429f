package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReporter_Render(t *testing.T) {
	result := testResult()
	report := testReport(result)

	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporter(&buf).Render(report, result))
	out := buf.String()

	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "9 read, 3 kept, 6 dropped")
	assert.Contains(t, out, "missing_apartment_number")
	assert.NotContains(t, out, "unmapped_borough", "zero counts are omitted")

	assert.Contains(t, out, "Share of tax class 2 sales")
	assert.Contains(t, out, "0.3333")
	assert.Contains(t, out, "1.0000")

	assert.Contains(t, out, "Mean price per square foot")
	assert.Contains(t, out, "500.00")
	assert.Contains(t, out, "300.00")
	assert.Contains(t, out, "n/a")
}

func TestConsoleReporter_RenderWithoutResult(t *testing.T) {
	report := testReport(testResult())

	var buf bytes.Buffer
	require.NoError(t, NewConsoleReporter(&buf).Render(report, nil))
	assert.NotContains(t, buf.String(), "NYC sales pipeline")
	assert.Contains(t, buf.String(), "Queens")
}
