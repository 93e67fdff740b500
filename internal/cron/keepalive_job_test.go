package cron

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/narusushi/lunch-backend/pkg/logger"
)

func TestKeepAliveJobPingsHealth(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	job, err := NewKeepAliveJob(KeepAliveJobParams{Logger: logger.Nop(), BackendURL: srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, "keep-alive", job.Name())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, "/health", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
}

func TestKeepAliveJobReportsNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	job, err := NewKeepAliveJob(KeepAliveJobParams{Logger: logger.Nop(), BackendURL: srv.URL})
	require.NoError(t, err)

	err = job.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestKeepAliveJobReportsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	job, err := NewKeepAliveJob(KeepAliveJobParams{Logger: logger.Nop(), BackendURL: url})
	require.NoError(t, err)
	assert.Error(t, job.Run(context.Background()))
}

func TestNewKeepAliveJobRequiresURL(t *testing.T) {
	_, err := NewKeepAliveJob(KeepAliveJobParams{Logger: logger.Nop(), BackendURL: "  "})
	assert.Error(t, err)
}
