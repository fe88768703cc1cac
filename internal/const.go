// Package internal hosts small numeric primitives shared by the mesh and
// skin compilers: tolerances, a hand-rolled quaternion, and a symmetric
// 3x3 eigensolver.
package internal

// MinVal is the threshold distinguishing valid magnitudes from floating
// point noise.
const MinVal = 1e-15

// Tolerance is a coarser threshold for collinearity/degeneracy checks.
const Tolerance = 1e-6

// Epsilon is the finest-grained comparison threshold for near-zero checks.
// The hull builder uses its own literal thresholds and the dedup pass
// compares bit-exactly; neither references Tolerance or Epsilon.
const Epsilon = 1e-10
