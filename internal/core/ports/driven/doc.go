// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TreeLister: Lists candidate files in a repository
//   - ContentFetcher: Retrieves raw file content
//   - TemplateParser: Parses one template format
//   - ArchitectureStore: Architecture document persistence
package driven
