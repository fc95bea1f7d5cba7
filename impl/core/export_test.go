package core

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, filterRows())
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, csvHeader, records[0])

	solo := records[1]
	assert.Equal(t, "1", solo[0])
	assert.Equal(t, "Hackathon", solo[1])
	assert.Equal(t, "Ada Lovelace", solo[2])
	assert.Equal(t, "ada@example.com", solo[3])
	assert.Equal(t, "+1 (555) 010-0001", solo[4])
	assert.Equal(t, "—", solo[5])
	assert.Equal(t, "pending", solo[6])
	assert.Equal(t, "2026-03-14 10:00:00", solo[7])

	team := records[2]
	assert.Equal(t, "Gophers (ABCD1234)", team[2])
	assert.Equal(t, "grace@example.com", team[3])
	assert.Equal(t, "+44 20 7946 0958", team[4], "falls back to the first member's phone")
	assert.Equal(t, "Grace (grace@example.com)", team[5])
}

func TestWriteCSV_Placeholders(t *testing.T) {
	rows := filterRows()
	rows[1].Teams = nil // team row without the joined team record

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows[1:2]))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Unnamed Team ()", records[1][2])
	assert.Equal(t, "—", records[1][3], "no leader email without the joined team record")
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}
