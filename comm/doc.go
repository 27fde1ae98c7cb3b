// Package comm provides the fixed-size SPMD communication layer: every
// rank runs the same program text and exchanges typed messages through a
// Communicator bound to its rank.
//
// Two implementations exist: the in-process group built from channel
// links (NewGroup/RunGroup), and the TCP star transport in the tcp
// subpackage. Both deliver messages FIFO per (sender, receiver) pair,
// which is what makes the broadcast sequence observable in the same
// relative order on every rank.
//
// Every Send and Recv is a blocking synchronization point. There is no
// mid-flight cancellation; a failure anywhere is surfaced to all ranks
// through context cancellation or connection teardown rather than
// leaving one side of a blocking pair hanging.
package comm
