package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectors(t *testing.T) {
	t.Run("tree gauges", func(t *testing.T) {
		TreeDirectories.Set(3)
		TreeSongs.Set(12)
		TreePlaylists.Set(1)

		if got := testutil.ToFloat64(TreeDirectories); got != 3 {
			t.Errorf("expected 3 directories, got %v", got)
		}
		if got := testutil.ToFloat64(TreeSongs); got != 12 {
			t.Errorf("expected 12 songs, got %v", got)
		}
		if got := testutil.ToFloat64(TreePlaylists); got != 1 {
			t.Errorf("expected 1 playlist, got %v", got)
		}
	})

	t.Run("update change counters", func(t *testing.T) {
		before := testutil.ToFloat64(UpdateChangesTotal.WithLabelValues("song_added"))
		UpdateChangesTotal.WithLabelValues("song_added").Add(2)
		after := testutil.ToFloat64(UpdateChangesTotal.WithLabelValues("song_added"))

		if after-before != 2 {
			t.Errorf("expected counter to grow by 2, grew by %v", after-before)
		}
	})
}

func TestSnapshot(t *testing.T) {
	t.Run("filters foreign metrics", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		foreign := prometheus.NewCounter(prometheus.CounterOpts{Name: "other_total", Help: "x"})
		ours := prometheus.NewGauge(prometheus.GaugeOpts{Name: "songdb_test_gauge", Help: "x"})
		reg.MustRegister(foreign, ours)
		ours.Set(7)
		foreign.Inc()

		samples, err := Snapshot(reg)
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}

		if len(samples) != 1 {
			t.Fatalf("expected 1 sample, got %d: %v", len(samples), samples)
		}
		if samples[0].Name != "songdb_test_gauge" || samples[0].Value != 7 {
			t.Errorf("unexpected sample %v", samples[0])
		}
	})

	t.Run("flattens histograms and labels", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		h := prometheus.NewHistogramVec(prometheus.HistogramOpts{Name: "songdb_test_seconds", Help: "x"}, []string{"mode"})
		reg.MustRegister(h)
		h.WithLabelValues("shared").Observe(0.5)
		h.WithLabelValues("shared").Observe(1.5)

		samples, err := Snapshot(reg)
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}

		if len(samples) != 2 {
			t.Fatalf("expected count and sum samples, got %v", samples)
		}
		if samples[0].Name != "songdb_test_seconds_count" || samples[0].Value != 2 {
			t.Errorf("unexpected count sample %v", samples[0])
		}
		if samples[1].Name != "songdb_test_seconds_sum" || samples[1].Value != 2 {
			t.Errorf("unexpected sum sample %v", samples[1])
		}
		if !strings.Contains(samples[0].String(), `mode="shared"`) {
			t.Errorf("expected label in output, got %s", samples[0].String())
		}
	})
}
