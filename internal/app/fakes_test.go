package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/tplmigrate/internal/domain"
	"github.com/bft-labs/tplmigrate/internal/ports"
)

// recordingLogger keeps every message for assertions.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *recordingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *recordingLogger) Debug(msg string, fields ...ports.Field) { l.record(msg) }
func (l *recordingLogger) Info(msg string, fields ...ports.Field)  { l.record(msg) }
func (l *recordingLogger) Warn(msg string, fields ...ports.Field)  { l.record(msg) }
func (l *recordingLogger) Error(msg string, fields ...ports.Field) { l.record(msg) }

func (l *recordingLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, m := range l.messages {
		if m == msg {
			n++
		}
	}
	return n
}

// fakeSource returns a template per index unless the index is listed in fail.
type fakeSource struct {
	fail map[uint64]bool

	// onCall runs at the start of every call, before the result is produced.
	onCall func(index uint64)
	// afterCall runs after the result is produced.
	afterCall func(index uint64)
}

func (s *fakeSource) Template(ctx context.Context, index uint64) (domain.RawTemplate, error) {
	if s.onCall != nil {
		s.onCall(index)
	}
	if s.afterCall != nil {
		defer s.afterCall(index)
	}
	if s.fail[index] {
		return domain.RawTemplate{}, fmt.Errorf("call reverted for %d", index)
	}
	return rawFor(index), nil
}

func rawFor(index uint64) domain.RawTemplate {
	return domain.RawTemplate{
		ImageURL:    fmt.Sprintf("ipfs://%d", index),
		Name:        fmt.Sprintf("template-%d", index),
		Description: "desc",
		JSONStorage: `{"slot":"head"}`,
		Level:       uint8(index % 256),
		Top:         1,
		Left:        2,
		Right:       3,
		Bottom:      4,
		Slot:        9,
	}
}

var (
	errRevert    = errors.New("execution reverted: template exists")
	errTransient = fmt.Errorf("%w: connection refused", domain.ErrTransient)
)

// fakeSink counts every call into the write port.
type fakeSink struct {
	simulateErr map[uint64][]error
	submitErr   map[uint64]error
	waitErr     map[uint64]error

	simulated []uint64
	submitted []uint64
	confirmed []uint64
	calls     []domain.Call
	depths    []uint64
}

func (s *fakeSink) total() int {
	return len(s.simulated) + len(s.submitted) + len(s.confirmed)
}

func (s *fakeSink) Simulate(ctx context.Context, call domain.Call) error {
	s.simulated = append(s.simulated, call.Index)
	if errs := s.simulateErr[call.Index]; len(errs) > 0 {
		err := errs[0]
		s.simulateErr[call.Index] = errs[1:]
		return err
	}
	return nil
}

func (s *fakeSink) Submit(ctx context.Context, call domain.Call) (ports.Submission, error) {
	s.submitted = append(s.submitted, call.Index)
	s.calls = append(s.calls, call)
	if err := s.submitErr[call.Index]; err != nil {
		return ports.Submission{}, err
	}
	return ports.Submission{Hash: fmt.Sprintf("0x%02x", call.Index), Nonce: uint64(len(s.submitted) - 1), Handle: call.Index}, nil
}

func (s *fakeSink) WaitConfirmed(ctx context.Context, sub ports.Submission, confirmations uint64) (ports.Confirmation, error) {
	index := sub.Handle.(uint64)
	s.confirmed = append(s.confirmed, index)
	s.depths = append(s.depths, confirmations)
	if err := s.waitErr[index]; err != nil {
		return ports.Confirmation{}, err
	}
	return ports.Confirmation{BlockNumber: 100 + index, GasUsed: 21000}, nil
}

func cleanDataset(indexes ...uint64) domain.CleanDataset {
	ds := domain.CleanDataset{}
	for _, i := range indexes {
		t := rawFor(i).Reduce()
		ds.Items = append(ds.Items, domain.CleanItem{Index: i, Data: &t})
	}
	return ds
}
