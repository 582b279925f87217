package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxRangeLen is the largest number of indexes a Range may span.
const MaxRangeLen = 1 << 20

// Range is an inclusive, non-empty span of template indexes.
type Range struct {
	Start uint64
	End   uint64
}

// NewRange validates start and end and returns the inclusive range.
func NewRange(start, end uint64) (Range, error) {
	if end < start {
		return Range{}, fmt.Errorf("%w: end (%d) must be >= start (%d)", ErrConfiguration, end, start)
	}
	if end-start >= MaxRangeLen {
		return Range{}, fmt.Errorf("%w: range %d..%d spans more than %d indexes", ErrConfiguration, start, end, MaxRangeLen)
	}
	return Range{Start: start, End: end}, nil
}

// ParseRange parses both bounds from their textual form.
// Both are required and must be non-negative integers with end >= start.
func ParseRange(start, end string) (Range, error) {
	s, err := parseBound("start", start)
	if err != nil {
		return Range{}, err
	}
	e, err := parseBound("end", end)
	if err != nil {
		return Range{}, err
	}
	return NewRange(s, e)
}

// Len returns the number of indexes in the range. Ranges built by NewRange
// never exceed MaxRangeLen.
func (r Range) Len() int {
	return int(r.End-r.Start) + 1
}

// Indexes returns start..end in ascending order.
func (r Range) Indexes() []uint64 {
	out := make([]uint64, 0, r.Len())
	for i := r.Start; ; i++ {
		out = append(out, i)
		if i == r.End {
			break
		}
	}
	return out
}

// Chunks splits the range into consecutive index slices of at most size entries.
// A size below one is treated as one.
func (r Range) Chunks(size int) [][]uint64 {
	if size < 1 {
		size = 1
	}
	idx := r.Indexes()
	chunks := make([][]uint64, 0, (len(idx)+size-1)/size)
	for i := 0; i < len(idx); i += size {
		j := min(i+size, len(idx))
		chunks = append(chunks, idx[i:j])
	}
	return chunks
}

// IndexFilter selects items by index. Nil bounds are open.
type IndexFilter struct {
	Start *uint64
	End   *uint64
}

// ParseIndexFilter parses optional bounds; empty strings leave that side open.
func ParseIndexFilter(start, end string) (IndexFilter, error) {
	var f IndexFilter
	if strings.TrimSpace(start) != "" {
		s, err := parseBound("start", start)
		if err != nil {
			return f, err
		}
		f.Start = &s
	}
	if strings.TrimSpace(end) != "" {
		e, err := parseBound("end", end)
		if err != nil {
			return f, err
		}
		f.End = &e
	}
	if f.Start != nil && f.End != nil && *f.End < *f.Start {
		return IndexFilter{}, fmt.Errorf("%w: end (%d) must be >= start (%d)", ErrConfiguration, *f.End, *f.Start)
	}
	return f, nil
}

// Match reports whether index lies within the filter bounds.
func (f IndexFilter) Match(index uint64) bool {
	if f.Start != nil && index < *f.Start {
		return false
	}
	if f.End != nil && index > *f.End {
		return false
	}
	return true
}

func parseBound(name, v string) (uint64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, fmt.Errorf("%w: --%s is required", ErrConfiguration, name)
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: --%s must be a non-negative integer, got %q", ErrConfiguration, name, v)
	}
	return n, nil
}
