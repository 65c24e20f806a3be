// Package prom exports engine metrics to Prometheus.
package prom
