package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Contabilidad-api/internal/application/ledger"
)

var _ ledger.Metrics = (*Recorder)(nil)

// Recorder métricas Prometheus de contabilización y de la API HTTP.
type Recorder struct {
	postings      *prometheus.CounterVec
	postingFailed *prometheus.CounterVec
	postedAmount  *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// New registra los instrumentos en reg (prometheus.DefaultRegisterer si es nil).
func New(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		postings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_postings_total",
			Help: "Movimientos contabilizados por operación.",
		}, []string{"op"}),
		postingFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_posting_failures_total",
			Help: "Contabilizaciones revertidas por operación.",
		}, []string{"op"}),
		postedAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_posted_amount_total",
			Help: "Importe contabilizado por operación.",
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Peticiones HTTP por método, ruta y estado.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	for _, c := range []prometheus.Collector{r.postings, r.postingFailed, r.postedAmount, r.httpRequests, r.httpDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// PostingRecorded cuenta un movimiento confirmado y suma su importe.
func (r *Recorder) PostingRecorded(op string, amount decimal.Decimal) {
	if r == nil {
		return
	}
	r.postings.WithLabelValues(op).Inc()
	r.postedAmount.WithLabelValues(op).Add(amount.Abs().InexactFloat64())
}

// PostingFailed cuenta una contabilización revertida.
func (r *Recorder) PostingFailed(op string) {
	if r == nil {
		return
	}
	r.postingFailed.WithLabelValues(op).Inc()
}

// ObserveRequest registra una petición HTTP. route es la plantilla de la ruta, no la URL.
func (r *Recorder) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
