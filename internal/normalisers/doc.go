// Package normalisers provides template parsers and their registry.
//
// Each subpackage handles one template format (ARM JSON, Bicep) behind
// the driven.TemplateParser port. The registry selects a parser by file
// extension so the scrape service stays format-agnostic.
//
// Parsing is best-effort and fault-isolated per file: a malformed
// template yields an error that the caller records as a skip, it never
// aborts sibling candidates.
package normalisers
