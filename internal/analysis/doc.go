// Package analysis inspects a finished step-response trace.
//
//   - [PowerSpectrum]: magnitude spectrum via FFT, zero-padded to a power of two
//   - [DominantFrequency]: strongest oscillation of the output, in Hz
//   - [NewPhasePortrait]: the (y, ẏ) trajectory and its ASCII rendering
//
// A forward Euler run that diverges still has a well-defined dominant
// frequency: the growing oscillation shows up as a sharp spectral peak.
package analysis
