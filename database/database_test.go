package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestConnectWithoutURL(t *testing.T) {
	_, err := Connect(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestConnectRejectsMalformedURL(t *testing.T) {
	_, err := Connect(context.Background(), "postgres://%zz", zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "unable to connect to database")
}

func TestCloseNilPool(t *testing.T) {
	assert.NotPanics(t, func() { Close(nil, nil) })
}

func TestConnectLive(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := Connect(ctx, url, zaptest.NewLogger(t))
	require.NoError(t, err)
	Close(pool, zaptest.NewLogger(t))
}
