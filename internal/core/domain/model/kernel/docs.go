// Package kernel holds the value objects shared by every aggregate: UUID identifiers,
// geographic Location with haversine distance, and decimal Money.
package kernel
