// SPDX-License-Identifier: MPL-2.0

// Package finder picks the do-file that builds a target by probing the
// resolver's candidates against a filesystem, in priority order, and stopping
// at the first regular file that exists.
package finder
