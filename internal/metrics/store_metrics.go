package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Результаты добавления позиции для лейбла result.
const (
	ResultOK                = "ok"
	ResultInsufficientStock = "insufficient_stock"
	ResultNotFound          = "not_found"
	ResultInvalid           = "invalid"
	ResultError             = "error"
)

// StoreMetrics содержит метрики операций магазина.
type StoreMetrics struct {
	// Счётчики операций над заказами
	ordersCreated prometheus.Counter
	lineItems     *prometheus.CounterVec
	statusChanges *prometheus.CounterVec

	// Гистограммы времени выполнения
	fulfillmentDuration prometheus.Histogram
	reportDuration      *prometheus.HistogramVec
}

// NewStoreMetrics создаёт новый экземпляр метрик магазина.
func NewStoreMetrics() *StoreMetrics {
	return newStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "furnstore_orders_created_total",
			Help: "Total number of orders opened",
		}),
		lineItems: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "furnstore_line_items_total",
			Help: "Total number of add-line-item attempts grouped by result",
		}, []string{"result"}),
		statusChanges: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "furnstore_status_changes_total",
			Help: "Total number of order status changes grouped by new status",
		}, []string{"status"}),
		fulfillmentDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "furnstore_fulfillment_duration_seconds",
			Help:    "Duration of the add-line-item transaction in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		reportDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "furnstore_report_duration_seconds",
			Help:    "Duration of reporting queries in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"report"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик открытых заказов.
func (m *StoreMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordLineItem фиксирует результат добавления позиции.
func (m *StoreMetrics) RecordLineItem(result string) {
	m.lineItems.WithLabelValues(result).Inc()
}

// RecordStatusChange фиксирует смену статуса заказа.
func (m *StoreMetrics) RecordStatusChange(status string) {
	m.statusChanges.WithLabelValues(status).Inc()
}

// RecordFulfillmentDuration записывает время транзакции добавления позиции.
func (m *StoreMetrics) RecordFulfillmentDuration(duration time.Duration) {
	m.fulfillmentDuration.Observe(duration.Seconds())
}

// RecordReportDuration записывает время отчётной выборки.
func (m *StoreMetrics) RecordReportDuration(report string, duration time.Duration) {
	m.reportDuration.WithLabelValues(report).Observe(duration.Seconds())
}
