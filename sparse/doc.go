// Package sparse provides the sparse matrix representations used by the
// engine: coordinate (COO) entry lists and compressed sparse row (CSR)
// blocks, plus the conversion between them and the local matrix-vector
// product.
//
// A CSR block may span the whole matrix or one worker's contiguous row
// partition. In the partitioned case row indices are local to the block
// while the column count stays global.
package sparse
