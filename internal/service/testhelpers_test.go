package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/whatsfordinner/backend/internal/model"
	"github.com/pageza/whatsfordinner/backend/internal/store"
)

const testDimension = 8

func setupTestStore(t *testing.T) *store.RecipeStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Recipe{}))
	return store.NewRecipeStore(db, testDimension)
}

// fakeEmbedder derives a deterministic vector from the text bytes, so
// identical text always embeds identically
type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	v := make([]float32, testDimension)
	for i, r := range text {
		v[i%testDimension] += float32(r)
	}
	return v, nil
}

func (f *fakeEmbedder) Dimension() int { return testDimension }

// failingEmbedder simulates a provider outage
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, fmt.Errorf("%w: simulated outage", ErrEmbedding)
}

func (failingEmbedder) Dimension() int { return testDimension }

// fakeCompletion records the prompts it was given and returns a canned
// Markdown recipe
type fakeCompletion struct {
	calls      int
	lastSystem string
	lastUser   string
	reply      string
	err        error
}

func (f *fakeCompletion) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	if f.reply == "" {
		return "# Suggested Recipe\n\n## Ingredients\n- something\n\n## Steps\n1. Cook.", nil
	}
	return f.reply, nil
}

// countingVision records invocations so tests can assert the provider
// was never reached
type countingVision struct {
	calls int
	reply string
	err   error
}

func (f *countingVision) DescribeImage(context.Context, []byte, string, string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}
