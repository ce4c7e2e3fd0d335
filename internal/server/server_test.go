package server_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/0x5457/textsim/internal/logger"
	"github.com/0x5457/textsim/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerStartStop(t *testing.T) {
	srv := server.New("127.0.0.1:0", newRouter(t, server.RouterOptions{}), logger.NewNop())
	require.NoError(t, srv.Start(context.Background()))

	res, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	require.NoError(t, srv.Stop(context.Background()))

	_, err = http.Get("http://" + srv.Addr() + "/health")
	assert.Error(t, err)
}

func TestServerStartAddressInUse(t *testing.T) {
	first := server.New("127.0.0.1:0", http.NotFoundHandler(), logger.NewNop())
	require.NoError(t, first.Start(context.Background()))
	t.Cleanup(func() { _ = first.Stop(context.Background()) })

	second := server.New(first.Addr(), http.NotFoundHandler(), logger.NewNop())
	assert.Error(t, second.Start(context.Background()))
}
