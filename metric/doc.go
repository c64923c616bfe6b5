// Package metric provides Prometheus metrics registration and HTTP exposure
// for ProdCon.
//
// # Overview
//
// The package centers on MetricsRegistry, which owns a private Prometheus
// registry pre-populated with core simulation metrics (run counts and
// durations, items produced/consumed, integrity violations, active workers)
// plus the standard Go runtime and process collectors. Components register
// their own collectors under a "component.metric" key; duplicate
// registrations are rejected with a classified invalid error.
//
// # Usage
//
// Create a registry and pass it where metrics are wanted:
//
//	registry := metric.NewMetricsRegistry()
//
//	buf, err := buffer.New[sim.Item](capacity,
//	    buffer.WithName[sim.Item]("work-queue"),
//	    buffer.WithMetrics[sim.Item](registry),
//	)
//
// Expose it over HTTP:
//
//	srv := metric.NewServer(9090, "/metrics", registry)
//	go srv.Start()
//	defer srv.Stop()
//
// Metrics are optional everywhere: every consumer of MetricsRegistry accepts
// nil and collects only its always-on in-process statistics in that case.
package metric
