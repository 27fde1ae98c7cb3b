// Package spargo provides a distributed sparse matrix-vector
// multiplication engine for Go.
//
// Spargo computes y = A*x across a fixed group of SPMD workers. The
// coordinator (rank 0) reads the matrix and vector from a blob store,
// validates them, scatters coordinate entries to the workers by
// contiguous row blocks, and gathers the result segments back in rank
// order. Every worker converts its block to compressed-row form and
// multiplies against a full replicated copy of the operand vector.
//
// # Quick Start
//
// In-process group:
//
//	err := comm.RunGroup(ctx, 4, func(ctx context.Context, c comm.Communicator) error {
//	    engine := spargo.New(c, spargo.WithStore(blobstore.NewLocalStore(".")))
//	    return engine.Run(ctx, spargo.Job{
//	        MatrixPath: "A.mtx",
//	        VectorPath: "x.mtx",
//	        OutputPath: "y.mtx",
//	    })
//	})
//
// Distributed group over TCP (one process per rank):
//
//	t, _ := tcp.Listen(ctx, addr, size)        // rank 0
//	t, _ := tcp.Dial(ctx, addr, rank, size)    // ranks 1..size-1
//	err := spargo.New(t).Run(ctx, job)
//
// Matrices and vectors are Matrix Market coordinate files (see the mtx
// package); inputs and outputs can live on the local filesystem, in
// memory, or on S3-compatible object storage (see the blobstore
// package and its subpackages).
package spargo
