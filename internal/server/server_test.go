package server

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestServerRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	gin.SetMode(gin.TestMode)

	srv := NewServer(Config{Addr: "127.0.0.1:0", ReadTimeout: time.Second, WriteTimeout: time.Second}, RouterConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerRunReportsListenError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer(Config{Addr: "127.0.0.1:-1"}, RouterConfig{})
	assert.Error(t, srv.Run(context.Background()))
}
