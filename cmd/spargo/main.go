// Command spargo multiplies a sparse Matrix Market matrix with a dense
// vector across a group of SPMD workers and writes the result vector.
//
// In-process group:
//
//	spargo -np 4 A.mtx x.mtx y.mtx [tolerance]
//
// Distributed group, one process per rank (rank 0 listens, the rest dial):
//
//	spargo -rank 0 -size 4 -addr :9333 A.mtx x.mtx y.mtx
//	spargo -rank 1 -size 4 -addr host:9333 A.mtx x.mtx y.mtx
//
// Diagnostics are printed by the coordinator only; worker ranks exit
// with the same status without printing.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/hupe1980/spargo"
	"github.com/hupe1980/spargo/blobstore"
	"github.com/hupe1980/spargo/comm"
	"github.com/hupe1980/spargo/comm/tcp"
)

const usage = `usage: spargo [flags] matrixPath vectorPath outputPath [tolerance]

flags:
  -np N         in-process worker count (default 1)
  -rank R       rank of this process in a distributed group
  -size N       distributed group size
  -addr A       coordinator address for distributed mode
  -compress C   frame compression in distributed mode (zstd, lz4)
  -audit        verify the scatter partitions the nonzero pattern
  -log-level L  minimum log level (debug, info, warn, error)
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("spargo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		np       = fs.Int("np", 1, "in-process worker count")
		rank     = fs.Int("rank", 0, "rank of this process in a distributed group")
		size     = fs.Int("size", 0, "distributed group size")
		addr     = fs.String("addr", "", "coordinator address for distributed mode")
		compress = fs.String("compress", "", "frame compression (zstd, lz4)")
		audit    = fs.Bool("audit", false, "verify the scatter partitions the nonzero pattern")
		logLevel = fs.String("log-level", "info", "minimum log level")
	)

	if err := fs.Parse(args); err != nil {
		return usageError(*rank)
	}
	if fs.NArg() < 3 || fs.NArg() > 4 {
		return usageError(*rank)
	}

	job := spargo.Job{
		MatrixPath: fs.Arg(0),
		VectorPath: fs.Arg(1),
		OutputPath: fs.Arg(2),
	}
	if fs.NArg() == 4 {
		tolerance, err := strconv.ParseFloat(fs.Arg(3), 64)
		if err != nil || tolerance < 0 {
			return usageError(*rank)
		}
		job.Tolerance = tolerance
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := spargo.NewTextLogger(parseLevel(*logLevel))
	store := blobstore.NewLocalStore("")

	coordinatorOpts := []spargo.Option{
		spargo.WithStore(store),
		spargo.WithLogger(logger),
		spargo.WithScatterAudit(*audit),
	}
	workerOpts := []spargo.Option{
		spargo.WithStore(store),
	}

	var err error
	if *addr != "" {
		err = runDistributed(ctx, *rank, *size, *addr, *compress, job, coordinatorOpts, workerOpts)
	} else {
		err = comm.RunGroup(ctx, *np, func(ctx context.Context, c comm.Communicator) error {
			optFns := workerOpts
			if c.Rank() == 0 {
				optFns = coordinatorOpts
			}
			return spargo.New(c, optFns...).Run(ctx, job)
		})
	}

	if err != nil {
		if *rank == 0 {
			fmt.Fprintf(os.Stderr, "spargo: %v\n", err)
		}
		return 1
	}
	return 0
}

func runDistributed(ctx context.Context, rank, size int, addr, compress string, job spargo.Job, coordinatorOpts, workerOpts []spargo.Option) error {
	var topts []func(*tcp.Options)
	if compress != "" {
		topts = append(topts, tcp.WithCompression(compress))
	}

	var (
		t   *tcp.Transport
		err error
	)
	if rank == 0 {
		t, err = tcp.Listen(ctx, addr, size, topts...)
	} else {
		t, err = tcp.Dial(ctx, addr, rank, size, topts...)
	}
	if err != nil {
		return err
	}
	defer t.Close()

	optFns := workerOpts
	if rank == 0 {
		optFns = coordinatorOpts
	}
	return spargo.New(t, optFns...).Run(ctx, job)
}

func usageError(rank int) int {
	if rank == 0 {
		fmt.Fprint(os.Stderr, usage)
	}
	return 1
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
