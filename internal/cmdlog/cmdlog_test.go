package cmdlog

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"scenerank/internal/metrics"
)

func TestRunPropagatesError(t *testing.T) {
	want := errors.New("load failed")
	if err := Run("load", func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
	if err := Run("load", func() error { return nil }); err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
}

func TestRunCountsFailures(t *testing.T) {
	before := testutil.ToFloat64(metrics.CommandErrors.WithLabelValues("flaky"))
	_ = Run("flaky", func() error { return errors.New("nope") })
	_ = Run("flaky", func() error { return nil })

	after := testutil.ToFloat64(metrics.CommandErrors.WithLabelValues("flaky"))
	if after != before+1 {
		t.Fatalf("error count went %v -> %v, want +1", before, after)
	}
	runs := testutil.ToFloat64(metrics.CommandRuns.WithLabelValues("flaky"))
	if runs < 2 {
		t.Fatalf("run count = %v, want >= 2", runs)
	}
}
