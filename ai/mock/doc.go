// Package mock provides test doubles for the ai package interfaces.
//
// The mock embedder is deterministic (the same text always yields the
// same vector), so ranking tests are reproducible without an external
// embedding service.
package mock
