package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/cozy-creator/cropscan/internal/preprocess"
	"github.com/gammazero/workerpool"
)

var (
	ErrTaskPanicked = errors.New("preprocess task panicked")
)

type PreprocessFunc func(data []byte) (*preprocess.Tensor, error)

// PreprocessWorker bounds how many uploads are decoded at once.
type PreprocessWorker struct {
	wp         *workerpool.WorkerPool
	preprocess PreprocessFunc
}

type preprocessResult struct {
	tensor *preprocess.Tensor
	err    error
}

// NewPreprocessWorker starts a pool of maxWorkers goroutines. A non-positive
// maxWorkers uses one worker per CPU.
func NewPreprocessWorker(maxWorkers int) *PreprocessWorker {
	return NewPreprocessWorkerWithFunc(maxWorkers, preprocess.Preprocess)
}

func NewPreprocessWorkerWithFunc(maxWorkers int, fn PreprocessFunc) *PreprocessWorker {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	return &PreprocessWorker{
		wp:         workerpool.New(maxWorkers),
		preprocess: fn,
	}
}

func (w *PreprocessWorker) Size() int {
	return w.wp.Size()
}

func (w *PreprocessWorker) Stop() {
	w.wp.StopWait()
}

// Preprocess queues data on the pool and waits for its tensor. A panic inside
// the task is returned as an error wrapping ErrTaskPanicked.
func (w *PreprocessWorker) Preprocess(ctx context.Context, data []byte) (*preprocess.Tensor, error) {
	resultc := make(chan preprocessResult, 1)

	w.wp.Submit(func() {
		if err := ctx.Err(); err != nil {
			resultc <- preprocessResult{err: err}
			return
		}

		resultc <- w.run(data)
	})

	select {
	case result := <-resultc:
		return result.tensor, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (w *PreprocessWorker) run(data []byte) (result preprocessResult) {
	defer func() {
		if r := recover(); r != nil {
			result = preprocessResult{err: fmt.Errorf("%w: %v", ErrTaskPanicked, r)}
		}
	}()

	tensor, err := w.preprocess(data)
	return preprocessResult{tensor: tensor, err: err}
}
