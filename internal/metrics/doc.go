// Package metrics records run metrics for the index generator.
//
// Components receive a Recorder and default to NoopRecorder, so callers never
// nil-check:
//
//	runner := pipeline.NewRunner(cfg, ws) // NoopRecorder
//	runner.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The CLI has no long-lived process to scrape, so the Prometheus registry is
// written to a node-exporter textfile with WriteTextfile after each run.
package metrics
