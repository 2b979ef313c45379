// Package metrics records build and stage metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	b := site.New(cfg, site.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder registers its collectors on a caller-supplied registry.
// A static site build is a short-lived process, so instead of serving the
// registry over HTTP the CLI writes it once per build in the node_exporter
// textfile format (see WriteTextfile).
package metrics
