// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files through
// github.com/go-audio/aiff.
//
// Samples of 8, 16, 24 and 32 bits are normalised to [-1, 1). The input is
// buffered in memory when the reader cannot seek. Decoder implements
// audio.Prober for the FORM/AIFF and FORM/AIFC signatures.
package aiff
