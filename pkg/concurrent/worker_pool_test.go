package concurrent

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapKeepsInputOrder(t *testing.T) {
	jobs := make([]int, 200)
	for i := range jobs {
		jobs[i] = i
	}

	for _, workers := range []int{0, 1, 4, 16} {
		got := Map(workers, jobs, func(v int) int { return v * v })
		for i, v := range got {
			assert.Equal(t, i*i, v)
		}
	}
}

func TestMapEmpty(t *testing.T) {
	got := Map(4, []string{}, func(s string) int { return len(s) })
	assert.Empty(t, got)
}

func TestWorkerPoolProcessesEveryJob(t *testing.T) {
	var calls atomic.Int64
	wp := NewWorkerPool[int, int](3, 10)
	wp.Start(func(job int) int {
		calls.Add(1)
		return job + 1
	})
	for i := 0; i < 10; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	sum := 0
	for r := range wp.CollectResults() {
		sum += r
	}
	assert.Equal(t, int64(10), calls.Load())
	assert.Equal(t, 55, sum)
}
