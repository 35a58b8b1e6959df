// Package metrics records sync run metrics.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default; PrometheusRecorder registers collectors on a private registry
// that the CLI can dump in the Prometheus text format for the node exporter
// textfile collector:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	pipeline := weekly.NewPipeline(fetcher, weekly.WithRecorder(rec))
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
