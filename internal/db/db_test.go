package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStepConstants(t *testing.T) {
	steps := []string{
		StepScenePrompts,
		StepSceneClip,
		StepMergedVideo,
		StepRunReport,
	}
	for _, step := range steps {
		assert.NotEmpty(t, step, "step constant should not be empty")
	}

	categories := []string{
		CategoryPrompting,
		CategoryGeneration,
		CategoryComposition,
		CategoryReporting,
	}
	for _, c := range categories {
		assert.NotEmpty(t, c, "category constant should not be empty")
	}
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-connection-string")
	require.Error(t, err)
}

func TestClose_NilPoolIsSafe(t *testing.T) {
	db := &DB{}
	assert.NotPanics(t, func() { db.Close() })
}
