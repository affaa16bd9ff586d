package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestReply(t *testing.T) {
	b := New()
	b.Handle(KindDetectPlatform, func(ctx context.Context, payload interface{}) (interface{}, error) {
		return "workday", nil
	})

	reply, err := b.Request(context.Background(), KindDetectPlatform, nil)

	require.NoError(t, err)
	assert.Equal(t, "workday", reply)
}

func TestRequestNoHandler(t *testing.T) {
	b := New()
	_, err := b.Request(context.Background(), KindAutofillStart, nil)
	assert.ErrorContains(t, err, "no handler registered")
}

func TestRequestPayloadDelivered(t *testing.T) {
	b := New()
	b.Handle(KindLogActivity, func(ctx context.Context, payload interface{}) (interface{}, error) {
		return payload, nil
	})

	reply, err := b.Request(context.Background(), KindLogActivity, 42)

	require.NoError(t, err)
	assert.Equal(t, 42, reply)
}

func TestHandlerReplacement(t *testing.T) {
	b := New()
	b.Handle(KindGetSettings, func(ctx context.Context, payload interface{}) (interface{}, error) {
		return "old", nil
	})
	b.Handle(KindGetSettings, func(ctx context.Context, payload interface{}) (interface{}, error) {
		return "new", nil
	})

	reply, err := b.Request(context.Background(), KindGetSettings, nil)

	require.NoError(t, err)
	assert.Equal(t, "new", reply)
}

// a slow handler must not block the requester past its context
func TestRequestContextCancel(t *testing.T) {
	b := New()
	b.Handle(KindAutofillData, func(ctx context.Context, payload interface{}) (interface{}, error) {
		time.Sleep(5 * time.Second)
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := b.Request(ctx, KindAutofillData, nil)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
