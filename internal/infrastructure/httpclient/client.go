package httpclient

import (
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskflow/internal/config"
)

// New creates the fasthttp client used for every call to the remote store.
func New(appName string, cfg config.APIConfig) *fasthttp.Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 16
	}
	return &fasthttp.Client{
		Name:                appName,
		MaxConnsPerHost:     maxConns,
		ReadTimeout:         timeout,
		WriteTimeout:        timeout,
		MaxIdleConnDuration: 90 * time.Second,
	}
}
