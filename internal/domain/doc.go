// Package domain contains the core domain entities and value objects for tplmigrate.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (RPC, file system, logging) and
// contains only pure business logic.
//
// # Entities
//
//   - [RawTemplate]: A template exactly as the source contract returns it
//   - [Template]: The reduced schema accepted by the target contract
//   - [FetchedDataset], [CleanDataset]: The two interchange file payloads
//   - [Range], [IndexFilter]: Inclusive index bounds for fetch and push
//   - [Call]: The materialized arguments of one addTemplateId call
//   - [RunSummary]: The outcome of one push run
package domain
