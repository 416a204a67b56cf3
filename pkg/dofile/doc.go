// SPDX-License-Identifier: MPL-2.0

// Package dofile enumerates the do-files that could build a target.
//
// Given a target path, Resolve produces every location a build recipe may
// live in, highest priority first:
//   - the exact recipe next to the target (target.do)
//   - the exact recipe mirrored under a do/ directory at every ancestor level
//   - default recipes (default.ext.do ... default.do) in each ancestor
//     directory and in the do/ directories above it
//
// The package performs no filesystem access. The caller probes the candidates
// in order and stops at the first one that exists; the sequence is lazy so
// probing can stop early without materializing the rest.
package dofile
