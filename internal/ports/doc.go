// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [TemplateSource]: Reads one template per index from the source contract
//   - [TemplateSink]: Simulates, submits and confirms addTemplateId calls
//   - [DatasetRepository]: Loads and saves the interchange files
//   - [Logger]: Structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with go-ethereum,
// the file system and zerolog.
package ports
