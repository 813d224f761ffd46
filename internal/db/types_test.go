package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusConstants(t *testing.T) {
	// Verify lifecycle constants are defined
	statuses := []string{
		string(ArtifactStatusPending),
		string(ArtifactStatusProcessing),
		string(ArtifactStatusProcessed),
		string(ArtifactStatusFailed),
		string(ProductStatusScraped),
		string(ImageStatusPending),
		string(LogLevelError),
	}

	for _, status := range statuses {
		assert.NotEmpty(t, status, "status constant should not be empty")
	}
}

func TestArtifactInput(t *testing.T) {
	origin := "http://a.com/p1"
	input := ArtifactInput{
		Filename: "urls.csv",
		FilePath: "data/input/urls.csv",
		Kind:     ArtifactKindCSV,
		Origin:   &origin,
	}

	assert.Equal(t, ArtifactKindCSV, input.Kind)
	assert.Nil(t, input.FileSize)
	assert.Equal(t, "http://a.com/p1", *input.Origin)
}
