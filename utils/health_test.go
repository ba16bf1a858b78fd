package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunProbes(t *testing.T) {
	status := runProbes([]Probe{
		{Name: "listings-postgres", Check: func(ctx context.Context) error { return nil }},
		{Name: "cache", Check: func(ctx context.Context) error { return errors.New("connection refused") }},
	})

	assert.True(t, status.Services["listings-postgres"])
	assert.False(t, status.Services["cache"])
	assert.False(t, status.CheckedAt.IsZero())
}
