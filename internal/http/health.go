package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/circuitbreaker"
)

// DefaultHealthCheckTimeout bounds each readiness check.
const DefaultHealthCheckTimeout = 2 * time.Second

// HealthChecker reports whether a dependency is usable.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// Pinger is anything that can be pinged, such as a slot store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker adapts a Pinger to HealthChecker.
type PingChecker struct {
	Target Pinger
}

// Check pings the target.
func (p PingChecker) Check(ctx context.Context) error {
	return p.Target.Ping(ctx)
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checkers        map[string]HealthChecker
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
	timeout         time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checkers:        make(map[string]HealthChecker),
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
		timeout:         DefaultHealthCheckTimeout,
	}
}

// RegisterChecker adds a dependency check to readiness.
func (h *HealthHandler) RegisterChecker(name string, checker HealthChecker) {
	h.checkers[name] = checker
}

// RegisterCircuitBreaker registers a circuit breaker for health monitoring.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.circuitBreakers[name] = cb
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness reports that the process is up. Metrics are served at /metrics.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readinessReport is the /readyz body.
type readinessReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (r readinessReport) healthy() bool { return r.Status == "ok" }

// Readiness runs every checker concurrently, each bounded by the check
// timeout, and reports 503 if any check fails or a circuit breaker is not
// closed.
func (h *HealthHandler) Readiness(c *gin.Context) {
	report := h.evaluate(c.Request.Context())

	status := http.StatusOK
	if !report.healthy() {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

func (h *HealthHandler) evaluate(ctx context.Context) readinessReport {
	report := readinessReport{Status: "ok", Checks: make(map[string]string)}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for name, checker := range h.checkers {
		wg.Add(1)
		go func(name string, checker HealthChecker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()
			result := "ok"
			if err := checker.Check(checkCtx); err != nil {
				result = err.Error()
			}

			mu.Lock()
			defer mu.Unlock()
			report.Checks[name] = result
			if result != "ok" {
				report.Status = "degraded"
			}
		}(name, checker)
	}
	wg.Wait()

	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		report.Checks[name+"_circuit"] = stats.State
		if !stats.IsHealthy {
			report.Status = "degraded"
		}
	}

	if len(report.Checks) == 0 {
		report.Checks["service"] = "ok"
	}
	return report
}
