// Package metrics exposes Prometheus counters for the HTTP surface and the
// learning domain.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordRequest(method, route string, status int, elapsed time.Duration)
	RecordLogin(success bool)
	RecordRegistration()
	RecordEnrollment()
	RecordLessonCompleted()
	RecordVideoUpload(bytes int64)
}

type Collector struct {
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	logins          *prometheus.CounterVec
	registrations   prometheus.Counter
	enrollments     prometheus.Counter
	completions     prometheus.Counter
	videoUploadSize prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lms_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lms_registrations_total",
			Help: "Registered accounts.",
		}),
		enrollments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lms_enrollments_total",
			Help: "Course enrollments created.",
		}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lms_lessons_completed_total",
			Help: "Lessons marked completed.",
		}),
		videoUploadSize: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lms_video_upload_bytes_total",
			Help: "Bytes of lesson video stored.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.latency,
		c.logins,
		c.registrations,
		c.enrollments,
		c.completions,
		c.videoUploadSize,
	)
	return c
}

func (c *Collector) RecordRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) RecordLogin(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

func (c *Collector) RecordRegistration()    { c.registrations.Inc() }
func (c *Collector) RecordEnrollment()      { c.enrollments.Inc() }
func (c *Collector) RecordLessonCompleted() { c.completions.Inc() }

func (c *Collector) RecordVideoUpload(bytes int64) {
	c.videoUploadSize.Add(float64(bytes))
}

// Handler serves the Prometheus exposition format for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type nop struct{}

// Nop discards everything.
var Nop Recorder = nop{}

func (nop) RecordRequest(string, string, int, time.Duration) {}
func (nop) RecordLogin(bool)                                 {}
func (nop) RecordRegistration()                              {}
func (nop) RecordEnrollment()                                {}
func (nop) RecordLessonCompleted()                           {}
func (nop) RecordVideoUpload(int64)                          {}
