package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanImageURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "webp rewritten to full-size jpg",
			url:  "https://http2.mlstatic.com/D_Q_NP_123-R.webp",
			want: "https://http2.mlstatic.com/D_NQ_NP_123-F.jpg",
		},
		{
			name: "clean jpg untouched",
			url:  "https://http2.mlstatic.com/D_NQ_NP_123-F.jpg",
			want: "https://http2.mlstatic.com/D_NQ_NP_123-F.jpg",
		},
		{
			name: "protocol-relative absolutized",
			url:  "//http2.mlstatic.com/D_NQ_NP_123-F.jpg",
			want: "https://http2.mlstatic.com/D_NQ_NP_123-F.jpg",
		},
		{
			name: "root-relative absolutized against default domain",
			url:  "/D_NQ_NP_123-F.jpg",
			want: "https://http2.mlstatic.com/D_NQ_NP_123-F.jpg",
		},
		{
			name: "empty input",
			url:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanImageURL(tt.url, ""))
		})
	}
}

// Normalization must be a fixed point so that the gallery dedup can run on
// cleaned URLs: cleaning an already-clean URL returns it unchanged.
func TestCleanImageURL_FixedPoint(t *testing.T) {
	raw := []string{
		"https://http2.mlstatic.com/D_Q_NP_123-R.webp",
		"//http2.mlstatic.com/D_Q_NP_456-R.webp",
		"/D_NQ_NP_789-F.jpg",
	}
	for _, url := range raw {
		once := CleanImageURL(url, "")
		twice := CleanImageURL(once, "")
		assert.Equal(t, once, twice, "clean(clean(%q)) must equal clean(%q)", url, url)
	}
}

func TestCleanImageURL_CollapsesVariants(t *testing.T) {
	a := CleanImageURL("https://http2.mlstatic.com/D_NQ_NP_123-F.jpg", "")
	b := CleanImageURL("https://http2.mlstatic.com/D_Q_NP_123-R.webp", "")
	assert.Equal(t, a, b, "raw variants of the same image must normalize identically")
}

func TestCleanImageURL_CustomBaseDomain(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/img.jpg", CleanImageURL("/img.jpg", "https://cdn.example.com"))
}
