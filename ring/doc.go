// Package ring implements arithmetic in R_q = Z_q[X]/(X^n + 1) for the
// module-lattice schemes in this repository: the prime field Z_q, fixed-degree
// polynomials tagged with their evaluation domain, the negacyclic
// Number-Theoretic Transform, and vectors/matrices of ring elements.
//
// Polynomials carry a Domain marker (Coefficient or Transform) and the only
// way to move between the two is through the transform itself; multiplication
// of coefficient-domain polynomials is defined exclusively as
// InvNTT(NTT(a) ∘ NTT(b)).
package ring
