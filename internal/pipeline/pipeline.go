// Package pipeline runs a bounded worker pool over per-tile conversion work
// and reassembles results in submission order when the consumer needs it
// (§4.7). Grounded on internal/tile/generator.go's job-channel/WaitGroup/
// atomic-counter worker pool shape, generalized from a fixed tile-coordinate
// job to an arbitrary *TileData payload and given an ordered-reassembly
// path generator.go never needed (geotiff2pmtiles tiles are independent
// output files; some of this format's conversion directions are not).
package pipeline

import (
	"container/heap"
	"runtime"
	"sync"

	"github.com/argent77/tile2ee-go/internal/tctypes"
)

// TileData is a single unit of per-tile conversion work. A worker mutates
// Output/Err on exactly one TileData at a time; no two workers observe the
// same instance concurrently.
type TileData struct {
	Index     int
	Width     int
	Height    int
	Encoding  tctypes.Encoding
	InputType tctypes.FileType
	PvrzIndex int
	Palette   []byte
	Input     []byte
	Output    []byte
	Err       error
}

// WorkFunc performs the encode or decode for a single TileData, recording
// any failure on t.Err rather than returning it.
type WorkFunc func(t *TileData)

// Pool runs WorkFunc across a fixed number of worker goroutines, reading
// from a bounded input queue and writing completed items to Results.
type Pool struct {
	work    WorkFunc
	input   chan *TileData
	Results chan *TileData
	wg      sync.WaitGroup
}

// New starts a pool of threads workers (0 autodetects via
// runtime.NumCPU()) fed by a queue of the given capacity.
func New(threads, queueCapacity int, work WorkFunc) *Pool {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	if queueCapacity <= 0 {
		queueCapacity = 64
	}

	p := &Pool{
		work:    work,
		input:   make(chan *TileData, queueCapacity),
		Results: make(chan *TileData, queueCapacity),
	}

	p.wg.Add(threads)
	for i := 0; i < threads; i++ {
		go func() {
			defer p.wg.Done()
			for t := range p.input {
				p.work(t)
				p.Results <- t
			}
		}()
	}
	return p
}

// Submit enqueues work, blocking while the input queue is full.
func (p *Pool) Submit(t *TileData) {
	p.input <- t
}

// Close signals no further work will be submitted. Results is closed once
// every worker has finished its in-flight items, so callers drain Results
// until it is closed.
func (p *Pool) Close() {
	close(p.input)
	go func() {
		p.wg.Wait()
		close(p.Results)
	}()
}

// tileHeap is a container/heap min-heap of *TileData ordered by Index.
type tileHeap []*TileData

func (h tileHeap) Len() int            { return len(h) }
func (h tileHeap) Less(i, j int) bool  { return h[i].Index < h[j].Index }
func (h tileHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *tileHeap) Push(x interface{}) { *h = append(*h, x.(*TileData)) }
func (h *tileHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Reassembler buffers out-of-order results from a Pool and releases them to
// the caller strictly in ascending Index order, starting at startIndex.
// Used by the two V2->V1 directions, where output is a fixed sequence of
// indexed blobs; the two V1->V2 directions consume Pool.Results directly
// since each produced page is an independent file and any order is fine.
type Reassembler struct {
	heap tileHeap
	next int
}

// NewReassembler creates a reassembler expecting indices to start at
// startIndex.
func NewReassembler(startIndex int) *Reassembler {
	r := &Reassembler{next: startIndex}
	heap.Init(&r.heap)
	return r
}

// Push adds a completed item to the reassembly buffer.
func (r *Reassembler) Push(t *TileData) {
	heap.Push(&r.heap, t)
}

// Ready reports whether the next expected item is buffered, and pops it if
// so. Callers loop: push newly arrived results, then drain Ready until it
// returns false, then wait for more results.
func (r *Reassembler) Ready() (*TileData, bool) {
	if len(r.heap) == 0 || r.heap[0].Index != r.next {
		return nil, false
	}
	t := heap.Pop(&r.heap).(*TileData)
	r.next++
	return t, true
}

// Pending returns the number of buffered-but-not-yet-released items.
func (r *Reassembler) Pending() int {
	return len(r.heap)
}
