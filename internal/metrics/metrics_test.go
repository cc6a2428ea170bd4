package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/bartgrantham/gofm-rds/rds"
)

func TestObserveDeltas(t *testing.T) {
	r := New()

	var st rds.Stats
	st.Polls = 10
	st.Unsynced = 2
	st.Groups[2][0] = 5
	st.NameAccepted = 1
	rec := rds.Record{PI: 0x54a8, CallSign: "WAAA", ProgramType: 9, TrafficProgram: true}
	rec.Name = [8]byte{'W', 'A', 'A', 'A', ' ', 'F', 'M', ' '}
	r.Observe(st, rec)

	st.Polls = 25
	st.Groups[2][0] = 6
	st.Groups[0][1] = 3
	r.Observe(st, rec)

	if got := testutil.ToFloat64(r.polls); got != 25 {
		t.Fatalf("polls: got=%v, want=25", got)
	}
	if got := testutil.ToFloat64(r.unsynced); got != 2 {
		t.Fatalf("unsynced: got=%v, want=2", got)
	}
	if got := testutil.ToFloat64(r.groups.WithLabelValues("2A")); got != 6 {
		t.Fatalf("2A: got=%v, want=6", got)
	}
	if got := testutil.ToFloat64(r.groups.WithLabelValues("0B")); got != 3 {
		t.Fatalf("0B: got=%v, want=3", got)
	}
	if got := testutil.ToFloat64(r.name.WithLabelValues("accept")); got != 1 {
		t.Fatalf("accept: got=%v, want=1", got)
	}
	if got := testutil.ToFloat64(r.flags.WithLabelValues("tp")); got != 1 {
		t.Fatalf("tp flag: got=%v, want=1", got)
	}
	if got := testutil.ToFloat64(r.station.WithLabelValues("54A8", "WAAA", "WAAA FM")); got != 1 {
		t.Fatalf("station info: got=%v, want=1", got)
	}

	// a fresh decoder restarts its counters from zero
	r.Observe(rds.Stats{Polls: 4}, rds.Record{})
	if got := testutil.ToFloat64(r.polls); got != 29 {
		t.Fatalf("polls after restart: got=%v, want=29", got)
	}
	if got := testutil.CollectAndCount(r.station); got != 0 {
		t.Fatalf("station info kept without PI: %d series", got)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Tuner(88.5, 42, true)
	r.Observe(rds.Stats{Polls: 1}, rds.Record{})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("could not scrape: %+v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read body: %+v", err)
	}
	for _, want := range []string{
		"gofm_tuner_frequency_mhz 88.5",
		"gofm_tuner_rssi_dbuv 42",
		"gofm_tuner_stereo 1",
		"gofm_rds_polls_total 1",
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("scrape missing %q:\n%s", want, body)
		}
	}
}
