package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []string{"id", "title"}, []map[string]string{
		{"id": "1", "title": "Heat"},
		{"id": "2", "title": "has,comma", "extra": "ignored"},
		{"id": "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, "id,title\n1,Heat\n2,\"has,comma\"\n3,\n", buf.String())
}

func TestWriteCSVHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"metric", "value"}, nil))
	assert.Equal(t, "metric,value\n", buf.String())
}
