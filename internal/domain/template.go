package domain

import (
	"encoding/json"
	"strconv"
	"time"
)

// RawTemplate is a template record as returned by the source contract's
// template(uint256) getter.
type RawTemplate struct {
	ImageURL    string `json:"imageURL"`
	Name        string `json:"name"`
	Description string `json:"description"`
	JSONStorage string `json:"jsonStorage"`
	Level       uint8  `json:"level"`
	Top         uint8  `json:"top"`
	Left        uint8  `json:"left"`
	Right       uint8  `json:"right"`
	Bottom      uint8  `json:"bottom"`
	Slot        uint8  `json:"slot"`
}

// Template is the reduced schema pushed to the target contract.
//
// Bounded fields stay as decoded JSON numbers so a bad value in a hand-edited
// clean file fails one item at push time instead of the whole file at load.
type Template struct {
	ImageURL    string      `json:"imageURL"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Level       json.Number `json:"level"`
	Top         json.Number `json:"top"`
	Left        json.Number `json:"left"`
	Right       json.Number `json:"right"`
	Bottom      json.Number `json:"bottom"`
}

// Reduce projects a raw template to the push schema, dropping jsonStorage and slot.
func (r RawTemplate) Reduce() Template {
	return Template{
		ImageURL:    r.ImageURL,
		Name:        r.Name,
		Description: r.Description,
		Level:       uint8Number(r.Level),
		Top:         uint8Number(r.Top),
		Left:        uint8Number(r.Left),
		Right:       uint8Number(r.Right),
		Bottom:      uint8Number(r.Bottom),
	}
}

func uint8Number(v uint8) json.Number {
	return json.Number(strconv.Itoa(int(v)))
}

// FetchedItem pairs an index with its raw record. Data is nil when the read failed.
type FetchedItem struct {
	Index uint64       `json:"index"`
	Data  *RawTemplate `json:"data"`
}

// FetchMeta describes where and when a fetched dataset was read.
type FetchMeta struct {
	Contract  string    `json:"contract"`
	Start     uint64    `json:"start"`
	End       uint64    `json:"end"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// FetchedDataset is the payload of the fetch output file.
type FetchedDataset struct {
	Meta  FetchMeta     `json:"meta"`
	Items []FetchedItem `json:"items"`
}

// Failed returns the indexes whose read failed, in dataset order.
func (d FetchedDataset) Failed() []uint64 {
	var out []uint64
	for _, it := range d.Items {
		if it.Data == nil {
			out = append(out, it.Index)
		}
	}
	return out
}

// CleanItem pairs an index with its reduced record.
type CleanItem struct {
	Index uint64    `json:"index"`
	Data  *Template `json:"data"`
}

// CleanDataset is the payload of the clean output file.
type CleanDataset struct {
	Items []CleanItem `json:"items"`
}

// RunSummary is the outcome of one push run.
type RunSummary struct {
	SentCount     int      `json:"sentCount"`
	FailedIndexes []uint64 `json:"failedIndexes"`
}

// RecordFailure appends index unless it was already recorded.
func (s *RunSummary) RecordFailure(index uint64) {
	for _, i := range s.FailedIndexes {
		if i == index {
			return
		}
	}
	s.FailedIndexes = append(s.FailedIndexes, index)
}
