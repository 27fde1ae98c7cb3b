// Package tcp implements the comm.Communicator over a TCP star rooted
// at the coordinator (rank 0). Every worker dials the coordinator; all
// of the engine's point-to-point and collective traffic flows along
// coordinator<->worker edges, so no worker-to-worker links exist.
//
// Frames are length-prefixed codec payloads (gob by default) with
// optional whole-frame zstd or lz4 compression. Both ends of the star
// must be configured with the same codec and compression.
//
// A torn-down connection fails every blocked call on both sides, which
// is how a transport failure anywhere becomes fatal to the whole group.
package tcp
