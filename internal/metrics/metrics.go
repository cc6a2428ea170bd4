// Package metrics exports decoder statistics to Prometheus.
package metrics // import "github.com/bartgrantham/gofm-rds/internal/metrics"

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bartgrantham/gofm-rds/rds"
)

const namespace = "gofm"

// Recorder turns successive rds.Stats snapshots into Prometheus counters.
// Observe is called from the radio loop, scrapes happen concurrently.
type Recorder struct {
	mu   sync.Mutex
	last rds.Stats

	reg *prometheus.Registry

	polls    prometheus.Counter
	unsynced prometheus.Counter
	gated    prometheus.Counter
	noise    prometheus.Counter
	groups   *prometheus.CounterVec
	name     *prometheus.CounterVec // by event
	text     *prometheus.CounterVec // by event
	resets   prometheus.Counter

	frequency prometheus.Gauge
	rssi      prometheus.Gauge
	stereo    prometheus.Gauge
	station   *prometheus.GaugeVec // info metric, PI and call sign labels
	pty       prometheus.Gauge
	flags     *prometheus.GaugeVec
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		polls: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rds", Name: "polls_total",
			Help: "Block sets read from the tuner.",
		}),
		unsynced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rds", Name: "unsynced_total",
			Help: "Block sets dropped because the decoder was not synchronized.",
		}),
		gated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rds", Name: "gated_total",
			Help: "Block sets dropped for exceeding their error threshold.",
		}),
		noise: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rds", Name: "noise_total",
			Help: "Name fragments dropped as unprintable.",
		}),
		groups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rds", Name: "groups_total",
			Help: "Synchronized groups by type.",
		}, []string{"group"}),
		name: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rds", Name: "name_events_total",
			Help: "Station name accumulator events.",
		}, []string{"event"}),
		text: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rds", Name: "text_events_total",
			Help: "Radiotext accumulator events.",
		}, []string{"event"}),
		resets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "rds", Name: "resets_total",
			Help: "Decoder resets (retunes).",
		}),
		frequency: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "tuner", Name: "frequency_mhz",
			Help: "Tuned frequency.",
		}),
		rssi: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "tuner", Name: "rssi_dbuv",
			Help: "Received signal strength.",
		}),
		stereo: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "tuner", Name: "stereo",
			Help: "1 when the stereo pilot is detected.",
		}),
		station: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "rds", Name: "station_info",
			Help: "Identity of the tuned station.",
		}, []string{"pi", "callsign", "name"}),
		pty: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "rds", Name: "program_type",
			Help: "Current program type code.",
		}),
		flags: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "rds", Name: "flag",
			Help: "Decoded RDS flags, 1 when set.",
		}, []string{"flag"}),
	}
}

// Observe accounts for everything that happened since the previous call.
func (r *Recorder) Observe(st rds.Stats, rec rds.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.last
	r.last = st

	r.polls.Add(delta(st.Polls, prev.Polls))
	r.unsynced.Add(delta(st.Unsynced, prev.Unsynced))
	r.gated.Add(delta(st.Gated, prev.Gated))
	r.noise.Add(delta(st.Noise, prev.Noise))
	r.resets.Add(delta(st.Resets, prev.Resets))
	for g := range st.Groups {
		for v := range st.Groups[g] {
			if d := delta(st.Groups[g][v], prev.Groups[g][v]); d > 0 {
				c := rds.Class{Group: rds.GroupType(g), Version: rds.Version(v)}
				r.groups.WithLabelValues(c.String()).Add(d)
			}
		}
	}
	r.name.WithLabelValues("cycle").Add(delta(st.NameCycles, prev.NameCycles))
	r.name.WithLabelValues("restart").Add(delta(st.NameRestarts, prev.NameRestarts))
	r.name.WithLabelValues("accept").Add(delta(st.NameAccepted, prev.NameAccepted))
	r.name.WithLabelValues("exhaust").Add(delta(st.NameExhausted, prev.NameExhausted))
	r.text.WithLabelValues("sweep").Add(delta(st.TextSweeps, prev.TextSweeps))
	r.text.WithLabelValues("clear").Add(delta(st.TextClears, prev.TextClears))

	r.station.Reset()
	if rec.PI != 0 {
		r.station.WithLabelValues(fmt.Sprintf("%04X", rec.PI), rec.CallSign, rec.NameString()).Set(1)
	}
	r.pty.Set(float64(rec.ProgramType))
	for name, v := range map[string]bool{
		"tp":        rec.TrafficProgram,
		"ta":        rec.TrafficAnnouncement,
		"music":     rec.Music,
		"stereo":    rec.Stereo,
		"emergency": rec.Emergency,
	} {
		r.flags.WithLabelValues(name).Set(b2f(v))
	}
}

// Tuner records the tuner's own status.
func (r *Recorder) Tuner(mhz float64, rssi int, stereo bool) {
	r.frequency.Set(mhz)
	r.rssi.Set(float64(rssi))
	r.stereo.Set(b2f(stereo))
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// delta tolerates counters going backwards, which only happens when a new
// decoder replaces the old one.
func delta(cur, prev uint64) float64 {
	if cur < prev {
		return float64(cur)
	}
	return float64(cur - prev)
}

func b2f(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
