package cron

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/narusushi/lunch-backend/pkg/logger"
)

const (
	keepAliveJobName        = "keep-alive"
	defaultKeepAliveTimeout = 10 * time.Second
	healthPath              = "/health"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// KeepAliveJobParams configures the health ping.
type KeepAliveJobParams struct {
	Logger     *logger.Logger
	BackendURL string
	Timeout    time.Duration
	Client     httpDoer
}

// KeepAliveJob pings the API health endpoint so the hosting platform does
// not idle the instance.
type KeepAliveJob struct {
	logg    *logger.Logger
	url     string
	timeout time.Duration
	client  httpDoer
}

func NewKeepAliveJob(params KeepAliveJobParams) (*KeepAliveJob, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	base := strings.TrimRight(strings.TrimSpace(params.BackendURL), "/")
	if base == "" {
		return nil, errors.New("backend url required")
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = defaultKeepAliveTimeout
	}
	client := params.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &KeepAliveJob{
		logg:    params.Logger,
		url:     base + healthPath,
		timeout: timeout,
		client:  client,
	}, nil
}

func (j *KeepAliveJob) Name() string { return keepAliveJobName }

// Run issues one GET. Non-200 responses are reported as errors.
func (j *KeepAliveJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url, nil)
	if err != nil {
		return fmt.Errorf("build keep-alive request: %w", err)
	}
	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("keep-alive ping failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("keep-alive ping returned status: %d", resp.StatusCode)
	}
	j.logg.Info(ctx, "keep-alive ping successful")
	return nil
}
