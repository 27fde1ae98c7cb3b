package spargo_test

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/spargo"
	"github.com/hupe1980/spargo/blobstore"
	"github.com/hupe1980/spargo/comm"
	"github.com/hupe1980/spargo/mtx"
)

// Example demonstrates a four-worker in-process multiplication of a
// diagonal matrix with the all-ones vector.
func Example() {
	store := blobstore.NewMemoryStore()
	store.Put("A.mtx", []byte(`%%MatrixMarket matrix coordinate real general
4 4 4
1 1 2
2 2 3
3 3 4
4 4 5
`))
	store.Put("x.mtx", []byte(`%%MatrixMarket matrix coordinate real general
4 1 4
1 1 1
2 1 1
3 1 1
4 1 1
`))

	job := spargo.Job{
		MatrixPath: "A.mtx",
		VectorPath: "x.mtx",
		OutputPath: "y.mtx",
	}

	err := comm.RunGroup(context.Background(), 4, func(ctx context.Context, c comm.Communicator) error {
		return spargo.New(c, spargo.WithStore(store)).Run(ctx, job)
	})
	if err != nil {
		log.Fatal(err)
	}

	data, _ := store.Get("y.mtx")
	result, err := mtx.Read(bytes.NewReader(data))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(result.DenseVector())
	// Output: [2 3 4 5]
}
