package metrics

import (
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_NS                 = "myftp"
	METRIC_SUBSYSTEM_DATAGRAM = "datagram"

	METRIC_LABEL_ROLE  = "role"
	METRIC_ROLE_SERVER = "server"
	METRIC_ROLE_CLIENT = "client"

	METRIC_LABEL_FLOW = "flow"
	METRIC_FLOW_SEND  = "send"
	METRIC_FLOW_RECV  = "recv"

	METRIC_LABEL_REASON    = "reason"
	METRIC_DROP_RATE_LIMIT = "rate_limit"

	AliveStateInit    = 0
	AliveStateRunning = 1
)

var (
	Hostname, _ = os.Hostname()

	ConstLabels = map[string]string{
		"myftp_runner_hostname": Hostname,
	}

	Alive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   METRIC_NS,
		Name:        "alive_state",
		Help:        "myftp 存活状态",
		ConstLabels: ConstLabels,
	})

	DatagramCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   METRIC_NS,
		Subsystem:   METRIC_SUBSYSTEM_DATAGRAM,
		Name:        "total",
		Help:        "收发的数据报数量",
		ConstLabels: ConstLabels,
	}, []string{METRIC_LABEL_ROLE, METRIC_LABEL_FLOW})

	DatagramBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   METRIC_NS,
		Subsystem:   METRIC_SUBSYSTEM_DATAGRAM,
		Name:        "bytes_total",
		Help:        "收发的数据报字节数",
		ConstLabels: ConstLabels,
	}, []string{METRIC_LABEL_ROLE, METRIC_LABEL_FLOW})

	DatagramDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   METRIC_NS,
		Subsystem:   METRIC_SUBSYSTEM_DATAGRAM,
		Name:        "dropped_total",
		Help:        "未应答而丢弃的数据报数量",
		ConstLabels: ConstLabels,
	}, []string{METRIC_LABEL_REASON})

	registerOnce sync.Once
)

// RegisterMetrics registers every collector with the default registry, only once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(Alive)
		prometheus.MustRegister(DatagramCount)
		prometheus.MustRegister(DatagramBytes)
		prometheus.MustRegister(DatagramDropped)
		Alive.Set(AliveStateInit)
	})
}

// RecordDatagram counts one datagram of n bytes for role in direction flow.
func RecordDatagram(role, flow string, n int) {
	DatagramCount.WithLabelValues(role, flow).Inc()
	DatagramBytes.WithLabelValues(role, flow).Add(float64(n))
}
