// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricPrefix = "homehub_"

var (
	// ReportsReceived counts every sensor report that passed validation.
	ReportsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "reports_received_total",
		Help: "Sensor reports accepted at the ingestion endpoint",
	})

	// ReportsRejected counts reports refused at the boundary.
	ReportsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "reports_rejected_total",
		Help: "Sensor reports rejected as malformed or by policy",
	})

	// UnassignedDevices counts reports from devices no zone claims.
	UnassignedDevices = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "unassigned_device_reports_total",
		Help: "Reports logged but not merged because the device maps to no zone",
	})

	// LogDropped counts append-log entries lost to overflow or write errors.
	LogDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "datalog_dropped_total",
		Help: "Append-log entries dropped instead of blocking ingestion",
	})

	// WeatherFetchFailures counts upstream weather fetches that failed.
	WeatherFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricPrefix + "weather_fetch_failures_total",
		Help: "Weather refreshes that failed (stale cache may still have served)",
	})
)
