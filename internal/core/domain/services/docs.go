// Package services provides domain services that implement business operations
// which don't naturally belong to a single aggregate root.
//
// The package includes:
//   - RoutePlanner: A stateless heuristic that sequences a courier's
//     multi-stop route by greedy nearest-neighbor selection
//
// Domain services are pure: they hold no state and perform no I/O, following
// Domain-Driven Design principles.
package services
