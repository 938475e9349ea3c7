package main

import (
	"bytes"
	"testing"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSequences(t *testing.T) {
	var buf bytes.Buffer
	renderSequences(&buf, []domain.NumberSequenceDTO{
		{Prefix: "SA1-", LastSequence: 42, UpdatedAt: "2024-03-01T10:00:00Z"},
		{Prefix: "Q", LastSequence: 7, UpdatedAt: "2024-03-02T10:00:00Z"},
	})

	out := buf.String()
	assert.Contains(t, out, "PREFIX")
	assert.Contains(t, out, "SA1-")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "Q")
}

func TestRenderInvoices(t *testing.T) {
	var buf bytes.Buffer
	renderInvoices(&buf, []domain.InvoiceDTO{
		{InvoiceNumber: "SA1-0001", Status: domain.InvoiceStatusOverdue, InvoiceDate: "2024-01-01", DueDate: "2024-01-31", TotalDue: 1100},
	})

	out := buf.String()
	assert.Contains(t, out, "SA1-0001")
	assert.Contains(t, out, "overdue")
	assert.Contains(t, out, "1100.00")
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"users", "create-admin"},
		{"sequences", "list"},
		{"invoices", "overdue"},
		{"invoices", "mark-overdue"},
		{"jobs", "run"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
