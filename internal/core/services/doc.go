// Package services implements the core application logic behind the
// driving ports. The scrape orchestrator wires traversal, filtering,
// parsing, normalisation and storage together; Normalize is the pure
// mapping from parsed template to architecture document.
package services
