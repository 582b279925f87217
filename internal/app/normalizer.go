package app

import "github.com/bft-labs/tplmigrate/internal/domain"

// Normalize drops failed reads and reduces every remaining record to the
// push schema, keeping dataset order.
func Normalize(ds domain.FetchedDataset) domain.CleanDataset {
	out := domain.CleanDataset{Items: make([]domain.CleanItem, 0, len(ds.Items))}
	for _, it := range ds.Items {
		if it.Data == nil {
			continue
		}
		t := it.Data.Reduce()
		out.Items = append(out.Items, domain.CleanItem{Index: it.Index, Data: &t})
	}
	return out
}
