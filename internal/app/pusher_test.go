package app

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/bft-labs/tplmigrate/internal/domain"
)

func newTestPusher(cfg PusherConfig, sink *fakeSink, logger *recordingLogger) *Pusher {
	p := NewPusher(cfg, sink, logger)
	p.retryInitial = time.Millisecond
	return p
}

func TestPusher_DryRunNeverTouchesSink(t *testing.T) {
	bad := cleanDataset(7)
	bad.Items[0].Data.Level = "999"

	datasets := map[string]domain.CleanDataset{
		"empty":      {},
		"several":    cleanDataset(0, 1, 2, 3),
		"with nil":   {Items: []domain.CleanItem{{Index: 4, Data: nil}}},
		"with range": cleanDataset(10, 11, 12),
		"invalid":    bad,
	}

	for name, ds := range datasets {
		t.Run(name, func(t *testing.T) {
			sink := &fakeSink{}
			logger := &recordingLogger{}
			cfg := PusherConfig{ContinueOnError: true}
			if name == "with range" {
				start := uint64(11)
				cfg.Filter = domain.IndexFilter{Start: &start}
			}

			summary, err := newTestPusher(cfg, sink, logger).Run(context.Background(), ds)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if sink.total() != 0 {
				t.Errorf("dry run made %d sink calls", sink.total())
			}
			if summary.SentCount != 0 {
				t.Errorf("SentCount = %d, want 0", summary.SentCount)
			}
		})
	}
}

func TestPusher_DryRunWithoutSink(t *testing.T) {
	logger := &recordingLogger{}
	summary, err := NewPusher(PusherConfig{}, nil, logger).Run(context.Background(), cleanDataset(0, 1))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := logger.count("[DRY] addTemplateId"); got != 2 {
		t.Errorf("previews = %d, want 2", got)
	}
	if summary.SentCount != 0 || len(summary.FailedIndexes) != 0 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestPusher_LiveRequiresSink(t *testing.T) {
	_, err := NewPusher(PusherConfig{Live: true}, nil, &recordingLogger{}).Run(context.Background(), cleanDataset(0))
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Errorf("error = %v, want ErrConfiguration", err)
	}
}

func TestPusher_LiveSendsInOrder(t *testing.T) {
	sink := &fakeSink{}
	summary, err := newTestPusher(PusherConfig{Live: true, Confirmations: 3}, sink, &recordingLogger{}).
		Run(context.Background(), cleanDataset(4, 2, 9))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.SentCount != 3 || len(summary.FailedIndexes) != 0 {
		t.Errorf("summary = %+v", summary)
	}
	want := []uint64{4, 2, 9}
	if !reflect.DeepEqual(sink.simulated, want) || !reflect.DeepEqual(sink.submitted, want) || !reflect.DeepEqual(sink.confirmed, want) {
		t.Errorf("simulated=%v submitted=%v confirmed=%v, want %v", sink.simulated, sink.submitted, sink.confirmed, want)
	}
	if !reflect.DeepEqual(sink.depths, []uint64{3, 3, 3}) {
		t.Errorf("confirmation depths = %v", sink.depths)
	}
	if c := sink.calls[0]; c.Name != "template-4" || c.Top != 1 || c.Level != 4 {
		t.Errorf("call = %+v", c)
	}
}

func TestPusher_DefaultConfirmations(t *testing.T) {
	sink := &fakeSink{}
	if _, err := newTestPusher(PusherConfig{Live: true}, sink, &recordingLogger{}).Run(context.Background(), cleanDataset(1)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(sink.depths, []uint64{1}) {
		t.Errorf("depths = %v, want [1]", sink.depths)
	}
}

func TestPusher_AbortOnFirstSimulationFailure(t *testing.T) {
	// Third processed item (index 12) fails simulation.
	sink := &fakeSink{simulateErr: map[uint64][]error{12: {errRevert}}}
	summary, err := newTestPusher(PusherConfig{Live: true}, sink, &recordingLogger{}).
		Run(context.Background(), cleanDataset(10, 11, 12, 13, 14))

	if !errors.Is(err, domain.ErrAborted) || !errors.Is(err, domain.ErrSimulation) {
		t.Fatalf("error = %v, want ErrAborted wrapping ErrSimulation", err)
	}
	var itemErr *domain.ItemError
	if !errors.As(err, &itemErr) || itemErr.Index != 12 {
		t.Errorf("item error = %v, want index 12", itemErr)
	}
	if summary.SentCount != 2 {
		t.Errorf("SentCount = %d, want 2", summary.SentCount)
	}
	if !reflect.DeepEqual(summary.FailedIndexes, []uint64{12}) {
		t.Errorf("FailedIndexes = %v, want [12]", summary.FailedIndexes)
	}
	if !reflect.DeepEqual(sink.simulated, []uint64{10, 11, 12}) {
		t.Errorf("simulated = %v, items after the failure were attempted", sink.simulated)
	}
	if !reflect.DeepEqual(sink.submitted, []uint64{10, 11}) {
		t.Errorf("submitted = %v", sink.submitted)
	}
}

func TestPusher_AbortOnSubmissionAndConfirmationFailure(t *testing.T) {
	tests := []struct {
		name string
		sink *fakeSink
	}{
		{"send fails", &fakeSink{submitErr: map[uint64]error{1: errors.New("nonce too low")}}},
		{"confirmation fails", &fakeSink{waitErr: map[uint64]error{1: errors.New("reverted in block")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := newTestPusher(PusherConfig{Live: true}, tt.sink, &recordingLogger{}).
				Run(context.Background(), cleanDataset(0, 1, 2))
			if !errors.Is(err, domain.ErrAborted) || !errors.Is(err, domain.ErrSubmission) {
				t.Fatalf("error = %v, want ErrAborted wrapping ErrSubmission", err)
			}
			if summary.SentCount != 1 || !reflect.DeepEqual(summary.FailedIndexes, []uint64{1}) {
				t.Errorf("summary = %+v", summary)
			}
			if len(tt.sink.submitted) != 2 {
				t.Errorf("submitted = %v, want only 0 and 1", tt.sink.submitted)
			}
		})
	}
}

func TestPusher_ContinueCollectsFailures(t *testing.T) {
	ds := cleanDataset(0, 1, 2, 3, 4, 5)
	ds.Items[4].Data.Bottom = "256"

	sink := &fakeSink{
		simulateErr: map[uint64][]error{1: {errRevert}},
		submitErr:   map[uint64]error{2: errors.New("replacement underpriced")},
		waitErr:     map[uint64]error{5: errors.New("timeout")},
	}
	summary, err := newTestPusher(PusherConfig{Live: true, ContinueOnError: true}, sink, &recordingLogger{}).
		Run(context.Background(), ds)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.SentCount != 2 {
		t.Errorf("SentCount = %d, want 2", summary.SentCount)
	}
	if want := []uint64{1, 2, 4, 5}; !reflect.DeepEqual(summary.FailedIndexes, want) {
		t.Errorf("FailedIndexes = %v, want %v", summary.FailedIndexes, want)
	}
	if want := []uint64{0, 1, 2, 3, 5}; !reflect.DeepEqual(sink.simulated, want) {
		t.Errorf("simulated = %v, want %v (invalid item 4 must not reach the sink)", sink.simulated, want)
	}
}

func TestPusher_ValidationAbortsByDefault(t *testing.T) {
	ds := cleanDataset(0, 1)
	ds.Items[0].Data.Left = "-1"

	sink := &fakeSink{}
	summary, err := newTestPusher(PusherConfig{Live: true}, sink, &recordingLogger{}).Run(context.Background(), ds)
	if !errors.Is(err, domain.ErrValidation) || !errors.Is(err, domain.ErrAborted) {
		t.Fatalf("error = %v, want aborted validation error", err)
	}
	if sink.total() != 0 || !reflect.DeepEqual(summary.FailedIndexes, []uint64{0}) {
		t.Errorf("sink calls = %d, summary = %+v", sink.total(), summary)
	}
}

func TestPusher_SkipsNilData(t *testing.T) {
	full := cleanDataset(0, 2)
	ds := domain.CleanDataset{Items: []domain.CleanItem{full.Items[0], {Index: 1}, full.Items[1]}}

	sink := &fakeSink{}
	logger := &recordingLogger{}
	summary, err := newTestPusher(PusherConfig{Live: true}, sink, logger).Run(context.Background(), ds)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.SentCount != 2 || len(summary.FailedIndexes) != 0 {
		t.Errorf("summary = %+v", summary)
	}
	if logger.count("skipping item without data") != 1 {
		t.Error("nil item should be skipped with a warning")
	}
}

func TestPusher_FilterByIndexNotPosition(t *testing.T) {
	start, end := uint64(20), uint64(30)
	sink := &fakeSink{}
	cfg := PusherConfig{Live: true, Filter: domain.IndexFilter{Start: &start, End: &end}}

	summary, err := newTestPusher(cfg, sink, &recordingLogger{}).Run(context.Background(), cleanDataset(5, 20, 25, 30, 31))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := []uint64{20, 25, 30}; !reflect.DeepEqual(sink.submitted, want) {
		t.Errorf("submitted = %v, want %v", sink.submitted, want)
	}
	if summary.SentCount != 3 {
		t.Errorf("SentCount = %d", summary.SentCount)
	}
}

func TestPusher_SimulationRetry(t *testing.T) {
	t.Run("transient retried when enabled", func(t *testing.T) {
		sink := &fakeSink{simulateErr: map[uint64][]error{0: {errTransient, errTransient}}}
		summary, err := newTestPusher(PusherConfig{Live: true, SimulationRetries: 3}, sink, &recordingLogger{}).
			Run(context.Background(), cleanDataset(0))
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if len(sink.simulated) != 3 || summary.SentCount != 1 {
			t.Errorf("simulated = %v, summary = %+v", sink.simulated, summary)
		}
	})

	t.Run("transient not retried by default", func(t *testing.T) {
		sink := &fakeSink{simulateErr: map[uint64][]error{0: {errTransient}}}
		_, err := newTestPusher(PusherConfig{Live: true}, sink, &recordingLogger{}).Run(context.Background(), cleanDataset(0))
		if !errors.Is(err, domain.ErrSimulation) || len(sink.simulated) != 1 {
			t.Errorf("err = %v, simulated = %v", err, sink.simulated)
		}
	})

	t.Run("revert never retried", func(t *testing.T) {
		sink := &fakeSink{simulateErr: map[uint64][]error{0: {errRevert, errRevert}}}
		_, err := newTestPusher(PusherConfig{Live: true, SimulationRetries: 5}, sink, &recordingLogger{}).
			Run(context.Background(), cleanDataset(0))
		if !errors.Is(err, domain.ErrSimulation) || len(sink.simulated) != 1 {
			t.Errorf("err = %v, simulated = %v", err, sink.simulated)
		}
		if len(sink.submitted) != 0 {
			t.Error("reverted simulation must not submit")
		}
	})

	t.Run("retries exhausted", func(t *testing.T) {
		sink := &fakeSink{simulateErr: map[uint64][]error{0: {errTransient, errTransient, errTransient}}}
		_, err := newTestPusher(PusherConfig{Live: true, SimulationRetries: 2}, sink, &recordingLogger{}).
			Run(context.Background(), cleanDataset(0))
		if !errors.Is(err, domain.ErrSimulation) || len(sink.simulated) != 3 {
			t.Errorf("err = %v, simulated = %v", err, sink.simulated)
		}
	})

	t.Run("submission never retried", func(t *testing.T) {
		sink := &fakeSink{submitErr: map[uint64]error{0: errTransient}}
		_, err := newTestPusher(PusherConfig{Live: true, SimulationRetries: 5}, sink, &recordingLogger{}).
			Run(context.Background(), cleanDataset(0))
		if !errors.Is(err, domain.ErrSubmission) || len(sink.submitted) != 1 {
			t.Errorf("err = %v, submitted = %v", err, sink.submitted)
		}
	})
}

func TestPusher_DelayBetweenConfirmedItems(t *testing.T) {
	sink := &fakeSink{}
	start := time.Now()
	_, err := newTestPusher(PusherConfig{Live: true, Delay: 20 * time.Millisecond}, sink, &recordingLogger{}).
		Run(context.Background(), cleanDataset(0, 1, 2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("elapsed = %v, want at least 3 delays", elapsed)
	}
}
