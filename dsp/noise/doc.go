// Package noise generates seeded colored noise.
//
// A [Generator] produces white, blue, violet or brown noise in [-1, 1] from
// a deterministic pseudo-random source. Each color keeps its own recurrence
// memory for the lifetime of the generator, so switching colors and back
// resumes the previous color without a discontinuity.
package noise
