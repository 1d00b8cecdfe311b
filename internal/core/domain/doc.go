// Package domain defines the core business entities for azarch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceSpec: A repository to scrape, parsed from "Owner/Repo[:subdir]"
//   - FileEntry: A file or directory discovered by a traversal strategy
//   - ParsedTemplate: The tolerantly parsed sections of one template
//   - Architecture: The normalised, persisted architecture document
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
