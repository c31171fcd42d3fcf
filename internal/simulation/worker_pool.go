package simulation

import (
	"runtime"
	"sync"
)

// simJob is a contiguous batch of resampling paths.
type simJob struct {
	startIndex int
	count      int
}

// workerPool fans simulation batches out across goroutines. Each path
// writes its drawdown into its own slot of a shared slice, so workers
// never contend and the merged result is independent of scheduling.
// Wait is the join barrier: the percentile step must not read results
// before it returns.
type workerPool struct {
	workerCount int
	jobQueue    chan simJob
	wg          sync.WaitGroup

	// runPath computes the max drawdown of a single simulated path.
	runPath func(pathIndex int) float64
	results []float64
}

// newWorkerPool creates a pool sized to workerCount, defaulting to the
// number of CPUs.
func newWorkerPool(workerCount, totalPaths int, runPath func(pathIndex int) float64) *workerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}
	return &workerPool{
		workerCount: workerCount,
		jobQueue:    make(chan simJob, workerCount),
		runPath:     runPath,
		results:     make([]float64, totalPaths),
	}
}

// start launches the workers
func (wp *workerPool) start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// submitAll enqueues the whole path range in batches and closes the
// queue.
func (wp *workerPool) submitAll(batchSize int) {
	if batchSize <= 0 {
		batchSize = 64
	}
	total := len(wp.results)
	for start := 0; start < total; start += batchSize {
		count := batchSize
		if start+count > total {
			count = total - start
		}
		wp.jobQueue <- simJob{startIndex: start, count: count}
	}
	close(wp.jobQueue)
}

// wait blocks until every submitted path has been simulated and
// returns the collected drawdowns.
func (wp *workerPool) wait() []float64 {
	wp.wg.Wait()
	return wp.results
}

func (wp *workerPool) worker() {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		for i := 0; i < job.count; i++ {
			idx := job.startIndex + i
			wp.results[idx] = wp.runPath(idx)
		}
	}
}
