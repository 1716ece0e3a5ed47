// Package metrics exposes Prometheus counters for the import pipeline.
//
// The bundle uses its own registry rather than the default one so tests
// can create isolated instances. The listener is a plain net/http server
// on a separate address from the Fiber API; it is disabled unless an
// address is configured.
package metrics
