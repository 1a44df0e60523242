package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promMu        sync.Mutex
	promInstances = map[string]*fiberprometheus.FiberPrometheus{}
)

// InitMetrics returns the Prometheus HTTP middleware for serviceName. The
// collectors live on the default registry, which rejects duplicates, so one
// instance per service name is shared for the life of the process.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promMu.Lock()
	defer promMu.Unlock()

	if prom, ok := promInstances[serviceName]; ok {
		return prom
	}
	prom := fiberprometheus.New(serviceName)
	promInstances[serviceName] = prom
	return prom
}

// MetricsMiddleware returns the request instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
