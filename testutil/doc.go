// Package testutil provides testing utilities for Spargo.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random sparse matrices and dense
// vectors, and a naive dense reference multiply for verifying results.
//
// # Random Data Generation
//
//	rng := testutil.NewRNG(seed)
//	entries := testutil.RandomEntries(rng, rows, cols, nnz)
//	x := testutil.RandomVector(rng, cols)
//
// # Ground Truth
//
//	want := testutil.DenseSpMV(rows, cols, entries, x)
package testutil
