// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	ConnectedPlayers prometheus.Gauge
	ActiveRooms      prometheus.Gauge
	RoomsCreated     prometheus.Counter
	GamesCompleted   prometheus.Counter
	EventsDispatched prometheus.Counter
	EventRejections  prometheus.Counter
	HandlerFaults    prometheus.Counter
	DispatchLatency  prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ConnectedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_players",
			Help:      "Number of connected players",
		}),
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live rooms",
		}),
		RoomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_created_total",
			Help:      "Total number of rooms created",
		}),
		GamesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_completed_total",
			Help:      "Total number of games that reached the ended phase",
		}),
		EventsDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "Total number of inbound events dispatched to rooms",
		}),
		EventRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_rejections_total",
			Help:      "Total number of rejected events",
		}),
		HandlerFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_faults_total",
			Help:      "Total number of handler faults",
		}),
		DispatchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_latency_seconds",
			Help:      "Inbound event dispatch latency",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}

	prometheus.MustRegister(
		m.ConnectedPlayers,
		m.ActiveRooms,
		m.RoomsCreated,
		m.GamesCompleted,
		m.EventsDispatched,
		m.EventRejections,
		m.HandlerFaults,
		m.DispatchLatency,
	)

	return m
}

// Monitor 聚合指标与运行时计数。nil 接收者所有方法都是空操作，
// 测试里不传即可。
type Monitor struct {
	metrics    *Metrics
	startTime  time.Time
	eventCount int64
	mutex      sync.Mutex
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

func (m *Monitor) StartServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())

	// 添加expvar指标
	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	expvar.Publish("events", expvar.Func(func() interface{} {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.eventCount
	}))

	go http.ListenAndServe(addr, nil)
}

func (m *Monitor) IncConnectedPlayers() {
	if m == nil {
		return
	}
	m.metrics.ConnectedPlayers.Inc()
}

func (m *Monitor) DecConnectedPlayers() {
	if m == nil {
		return
	}
	m.metrics.ConnectedPlayers.Dec()
}

func (m *Monitor) SetActiveRooms(count int) {
	if m == nil {
		return
	}
	m.metrics.ActiveRooms.Set(float64(count))
}

func (m *Monitor) IncRoomsCreated() {
	if m == nil {
		return
	}
	m.metrics.RoomsCreated.Inc()
}

func (m *Monitor) IncGamesCompleted() {
	if m == nil {
		return
	}
	m.metrics.GamesCompleted.Inc()
}

func (m *Monitor) IncEventsDispatched() {
	if m == nil {
		return
	}
	m.metrics.EventsDispatched.Inc()
	m.mutex.Lock()
	m.eventCount++
	m.mutex.Unlock()
}

func (m *Monitor) IncEventRejections() {
	if m == nil {
		return
	}
	m.metrics.EventRejections.Inc()
}

func (m *Monitor) IncHandlerFaults() {
	if m == nil {
		return
	}
	m.metrics.HandlerFaults.Inc()
}

func (m *Monitor) ObserveDispatchLatency(duration time.Duration) {
	if m == nil {
		return
	}
	m.metrics.DispatchLatency.Observe(duration.Seconds())
}
