package spargo

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/spargo/blobstore"
	"github.com/hupe1980/spargo/comm"
	"github.com/hupe1980/spargo/mtx"
	"github.com/hupe1980/spargo/partition"
	"github.com/hupe1980/spargo/sparse"
)

// coordinatorRank is the rank that reads the inputs, scatters the
// entries, gathers the segments, and writes the result.
const coordinatorRank = 0

// Job names the input and output files of one multiplication run.
type Job struct {
	// MatrixPath is the Matrix Market file holding A.
	MatrixPath string
	// VectorPath is the Matrix Market file holding x.
	VectorPath string
	// OutputPath receives y = A*x as an n x 1 coordinate file.
	OutputPath string
	// Tolerance drops result entries with magnitude at or below it.
	// The zero value selects mtx.DefaultZeroTolerance.
	Tolerance float64
}

// Engine runs distributed sparse matrix-vector multiplications over a
// fixed SPMD group. Every rank constructs its own Engine around its
// communicator and calls Run with the same Job.
type Engine struct {
	comm            comm.Communicator
	logger          *Logger
	metrics         MetricsCollector
	store           blobstore.Store
	multiplyWorkers int
	scatterAudit    bool
}

// New creates an Engine for one rank of the group.
func New(c comm.Communicator, optFns ...Option) *Engine {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		store:            blobstore.NewLocalStore(""),
		multiplyWorkers:  1,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		comm:            c,
		logger:          opts.logger,
		metrics:         opts.metricsCollector,
		store:           opts.store,
		multiplyWorkers: opts.multiplyWorkers,
		scatterAudit:    opts.scatterAudit,
	}
}

// Run executes one multiplication. It blocks until every protocol step
// this rank participates in has completed. All ranks return nil on
// success; on a validation or ingestion failure every rank returns an
// error matching ErrValidationFailed.
func (e *Engine) Run(ctx context.Context, job Job) error {
	if e.comm.Rank() == coordinatorRank {
		return e.runCoordinator(ctx, job)
	}
	return e.runWorker(ctx)
}

func (e *Engine) runCoordinator(ctx context.Context, job Job) error {
	start := time.Now()
	matrix, vector, err := e.ingest(ctx, job)
	entries := 0
	if matrix != nil {
		entries = len(matrix.Entries)
	}
	e.metrics.RecordIngest(entries, time.Since(start), err)

	if err == nil {
		err = validate(matrix, vector)
	}

	// The outcome must reach every rank before any further collective,
	// otherwise a coordinator-only exit leaves the workers blocked.
	outcome := comm.Message{Tag: comm.TagOutcome, OK: err == nil}
	if err != nil {
		outcome.Reason = err.Error()
	}
	if bErr := comm.Bcast(ctx, e.comm, coordinatorRank, &outcome); bErr != nil {
		return bErr
	}
	if err != nil {
		e.logger.Error("run aborted", "reason", err.Error())
		return err
	}

	e.logger.Info("ingest complete",
		"rows", matrix.Rows, "cols", matrix.Cols, "entries", entries)

	dims := comm.Message{Tag: comm.TagDims, Ints: []int64{
		int64(matrix.Rows), int64(matrix.Cols),
		int64(vector.Rows), int64(vector.Cols),
	}}
	if err := comm.Bcast(ctx, e.comm, coordinatorRank, &dims); err != nil {
		return err
	}

	dist, err := partition.New(matrix.Rows, e.comm.Size())
	if err != nil {
		return err
	}

	start = time.Now()
	local, err := e.scatter(ctx, dist, matrix.Entries)
	e.metrics.RecordDistribute(e.comm.Size(), time.Since(start), err)
	if err != nil {
		return err
	}

	rowStart, rowEnd := dist.Range(coordinatorRank)
	block := sparse.FromCOORange(matrix.Cols, local, rowStart, rowEnd)

	x := vector.DenseVector()
	vec := comm.Message{Tag: comm.TagVector, Vals: x}
	if err := comm.Bcast(ctx, e.comm, coordinatorRank, &vec); err != nil {
		return err
	}

	segment, err := e.multiply(ctx, block, x)
	if err != nil {
		return err
	}

	start = time.Now()
	result, err := e.gather(ctx, dist, segment)
	e.metrics.RecordGather(len(result), time.Since(start), err)
	if err != nil {
		return err
	}

	if err := e.emit(ctx, job, result); err != nil {
		return err
	}

	e.logger.WithWorkers(e.comm.Size()).Info("run complete",
		"rows", len(result), "nonzeros", mtx.CountNonZeros(result, job.tolerance()))

	return nil
}

func (e *Engine) runWorker(ctx context.Context) error {
	rank := e.comm.Rank()

	outcome := comm.Message{Tag: comm.TagOutcome}
	if err := comm.Bcast(ctx, e.comm, coordinatorRank, &outcome); err != nil {
		return err
	}
	if !outcome.OK {
		// Same exit branch as the coordinator, no output of our own.
		return outcomeError(outcome.Reason)
	}

	dims := comm.Message{Tag: comm.TagDims}
	if err := comm.Bcast(ctx, e.comm, coordinatorRank, &dims); err != nil {
		return err
	}
	if len(dims.Ints) != 4 {
		return fmt.Errorf("dims broadcast: want 4 values, got %d", len(dims.Ints))
	}
	rows, cols := int(dims.Ints[0]), int(dims.Ints[1])

	dist, err := partition.New(rows, e.comm.Size())
	if err != nil {
		return err
	}

	msg, err := comm.Expect(ctx, e.comm, coordinatorRank, comm.TagEntries)
	if err != nil {
		return fmt.Errorf("receive entries: %w", err)
	}
	local, err := entriesFromMessage(msg)
	if err != nil {
		return err
	}
	e.logger.WithRank(rank).Debug("entries received", "count", len(local))

	rowStart, rowEnd := dist.Range(rank)
	block := sparse.FromCOORange(cols, local, rowStart, rowEnd)

	vec := comm.Message{Tag: comm.TagVector}
	if err := comm.Bcast(ctx, e.comm, coordinatorRank, &vec); err != nil {
		return err
	}

	segment, err := e.multiply(ctx, block, vec.Vals)
	if err != nil {
		return err
	}

	return e.reportSegment(ctx, segment)
}

func (e *Engine) ingest(ctx context.Context, job Job) (matrix, vector *mtx.Matrix, err error) {
	if matrix, err = e.readMatrix(ctx, job.MatrixPath); err != nil {
		return nil, nil, err
	}
	if vector, err = e.readMatrix(ctx, job.VectorPath); err != nil {
		return nil, nil, err
	}
	return matrix, vector, nil
}

func (e *Engine) readMatrix(ctx context.Context, name string) (*mtx.Matrix, error) {
	r, err := e.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer r.Close()

	m, err := mtx.Read(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return m, nil
}

func validate(matrix, vector *mtx.Matrix) error {
	if !vector.IsVector() {
		return &ErrNotVector{Rows: vector.Rows, Cols: vector.Cols}
	}
	if n := vector.VectorLen(); n != matrix.Cols {
		return &ErrDimensionMismatch{MatrixCols: matrix.Cols, VectorLen: n}
	}
	return nil
}

func (e *Engine) multiply(ctx context.Context, block *sparse.CSR, x []float64) ([]float64, error) {
	start := time.Now()

	var (
		segment []float64
		err     error
	)
	if e.multiplyWorkers > 1 {
		segment, err = block.MulVecParallel(ctx, x, e.multiplyWorkers)
	} else {
		segment = block.MulVec(x)
	}

	e.metrics.RecordMultiply(block.Rows, time.Since(start))

	return segment, err
}

func (e *Engine) emit(ctx context.Context, job Job, result []float64) error {
	w, err := e.store.Create(ctx, job.OutputPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", job.OutputPath, err)
	}

	if err := mtx.WriteVector(w, result, job.tolerance()); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", job.OutputPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("write %s: %w", job.OutputPath, err)
	}
	return nil
}

func (j Job) tolerance() float64 {
	if j.Tolerance == 0 {
		return mtx.DefaultZeroTolerance
	}
	return j.Tolerance
}
