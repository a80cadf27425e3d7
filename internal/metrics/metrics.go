package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 入住服务指标（独立 Registry，便于测试）
type Metrics struct {
	registry *prometheus.Registry

	submissions    *prometheus.CounterVec // result: success|validation_error|persistence_error
	submitDuration prometheus.Histogram   // 持久化事务耗时
	pdfRequests    *prometheus.CounterVec // result: success|upstream_error|empty|invalid
	pdfDuration    prometheus.Histogram
	notifications  *prometheus.CounterVec // notifier, result
	activeSessions prometheus.GaugeFunc
}

// New 创建指标；sessions 为 nil 时不注册会话数
func New(sessions func() int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "submissions_total",
			Help:      "Intake submissions by result.",
		}, []string{"result"}),
		submitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "submission_duration_seconds",
			Help:      "Time spent persisting an intake.",
			Buckets:   prometheus.DefBuckets,
		}),
		pdfRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "pdf_requests_total",
			Help:      "PDF generation requests by result.",
		}, []string{"result"}),
		pdfDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "intake",
			Name:      "pdf_duration_seconds",
			Help:      "Time spent waiting for the PDF function.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "intake",
			Name:      "notifications_total",
			Help:      "Post-submission notifications by notifier and result.",
		}, []string{"notifier", "result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.submissions, m.submitDuration, m.pdfRequests, m.pdfDuration, m.notifications,
	)
	if sessions != nil {
		m.activeSessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "intake",
			Name:      "active_sessions",
			Help:      "Wizard sessions held in memory.",
		}, func() float64 { return float64(sessions()) })
		reg.MustRegister(m.activeSessions)
	}
	return m
}

// Handler /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry 供测试读取
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// 以下方法 nil 安全，未启用指标时直接返回

func (m *Metrics) ObserveSubmission(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
	m.submitDuration.Observe(d.Seconds())
}

func (m *Metrics) ObservePDF(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.pdfRequests.WithLabelValues(result).Inc()
	m.pdfDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveNotification(notifier, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(notifier, result).Inc()
}
