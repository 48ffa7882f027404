// Package model defines core types shared across the Vamana packages.
//
// # Identity Types
//
//   - LocationID: Dense, store-local vector identifier (uint32)
//
// # Data Types
//
//   - Neighbor: (id, distance) pair ordered ascending by distance
package model
