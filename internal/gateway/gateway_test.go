package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/activity"
)

func TestComplete_NoCredential(t *testing.T) {
	log := activity.NewLog(10)
	client := NewClient(Config{}, log)

	_, err := client.Complete(context.Background(), Request{
		System: "sys",
		User:   "user",
		Model:  "gpt-4o-mini",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCredential)

	var gwErr *Error
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "complete", gwErr.Op)

	// Failed calls still land in the activity log
	assert.Equal(t, 1, log.Len())
}

func TestPing_NoCredential(t *testing.T) {
	client := NewClient(Config{}, nil)

	err := client.Ping(context.Background())

	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Op: "complete", Err: inner}

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "completion gateway complete")
	assert.Contains(t, err.Error(), "boom")
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient(Config{APIKey: "k"}, nil)

	assert.Equal(t, 60*time.Second, client.timeout)
}
