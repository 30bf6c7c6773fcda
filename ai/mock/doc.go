// Package mock provides test doubles for the ai package interfaces.
//
// The mocks produce deterministic output so tests are reproducible without
// an external embedding service, and expose function fields for injecting
// custom behavior (including failures) per test.
package mock
