package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractURLs_NamedColumns(t *testing.T) {
	csv := "name,url\n" +
		"Producto A,http://a.com/p1\n" +
		"Producto B,http://a.com/p2\n"

	urls, err := ExtractURLs(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.com/p1", "http://a.com/p2"}, urls)
}

// Mixed column names and an in-file duplicate: the duplicate is dropped
// and first-occurrence order is preserved.
func TestExtractURLs_ColumnPriorityAndDedup(t *testing.T) {
	csv := "url,Link,website\n" +
		"http://a.com/p1,,\n" +
		",http://a.com/p1,\n" +
		",,http://a.com/p2\n"

	urls, err := ExtractURLs(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.com/p1", "http://a.com/p2"}, urls)
}

func TestExtractURLs_FirstColumnFallback(t *testing.T) {
	csv := "direccion,notas\n" +
		"https://b.com/p9,algo\n" +
		"no es una url,algo\n"

	urls, err := ExtractURLs(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://b.com/p9"}, urls)
}

func TestExtractURLs_RowsWithoutURLSkippedSilently(t *testing.T) {
	csv := "url\n" +
		"\n" +
		"   \n" +
		"http://a.com/p1\n"

	urls, err := ExtractURLs(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.com/p1"}, urls)
}

func TestExtractURLs_NoURLsIsNotAnError(t *testing.T) {
	csv := "nombre,precio\nPasta,10\nGel,12\n"

	urls, err := ExtractURLs(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestExtractURLs_EmptyInput(t *testing.T) {
	urls, err := ExtractURLs(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, urls)
}

// Running the extractor twice over the same content yields the same list:
// dedup state is per call, order deterministic.
func TestExtractURLs_Deterministic(t *testing.T) {
	csv := "url\nhttp://a.com/p1\nhttp://a.com/p2\nhttp://a.com/p1\n"

	first, err := ExtractURLs(strings.NewReader(csv))
	require.NoError(t, err)
	second, err := ExtractURLs(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"http://a.com/p1", "http://a.com/p2"}, first)
}
