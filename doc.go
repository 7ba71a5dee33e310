// Package rebound provides a deterministic N-body simulation handle and
// random-access readers for its binary checkpoint archives.
//
// A long-running integration periodically appends checkpoint records
// ("blobs") to an archive file. Archive gives random access to that file:
// it reconstructs the simulation state at an arbitrary requested time from
// the nearest preceding checkpoint instead of replaying the trajectory from
// the beginning, and reuses the currently held state across ascending
// queries so a forward sweep costs amortized forward integration rather
// than repeated reloads.
//
//	sa, err := rebound.Open("archive.bin")
//	if err != nil { ... }
//	defer sa.Close()
//	sim, err := sa.GetSimulation(1e6, rebound.ModeClose, true)
//
// Every accessor returns the Archive's single mutable handle; callers that
// need to keep a state across queries must Copy it first.
package rebound
