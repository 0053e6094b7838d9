package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/client/client"
	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/dmitrijs2005/spudcatalog/internal/logging"
)

// ConnectivityProbe reports whether the backend is reachable.
type ConnectivityProbe interface {
	Check(ctx context.Context) models.ConnectivityStatus
}

type connectivityProbe struct {
	checker client.HealthChecker
	timeout time.Duration
	log     logging.Logger
	now     func() time.Time
}

// NewConnectivityProbe wraps a health checker. A positive timeout bounds
// each check.
func NewConnectivityProbe(checker client.HealthChecker, timeout time.Duration, log logging.Logger) ConnectivityProbe {
	return &connectivityProbe{checker: checker, timeout: timeout, log: log.With("component", "probe"), now: time.Now}
}

func (p *connectivityProbe) Check(ctx context.Context) models.ConnectivityStatus {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	status := models.ConnectivityStatus{CheckedAt: p.now()}
	if err := p.checker.Health(ctx); err != nil {
		status.Err = fmt.Errorf("%w: %w", models.ErrConnectivity, err)
		p.log.Warn(ctx, "backend connection failed", "error", err)
		return status
	}

	status.Reachable = true
	p.log.Info(ctx, "backend connection successful")
	return status
}
