// SPDX-License-Identifier: EPL-2.0

// Package utils holds the pure sample-format helpers shared by the encoders
// and decoders: float32 to int16 conversion and channel (de)interleaving.
//
// Every function allocates its own output and keeps no state, so they are
// safe to call from any goroutine.
package utils
