package particles

import (
	"context"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// chunk is one unit of parallel work: the particles in [lo, hi).
type chunk struct {
	index  int
	lo, hi int
}

func chunkCount(n, size int) int {
	return (n + size - 1) / size
}

func chunkAt(n, size, index int) chunk {
	lo := index * size
	hi := min(lo+size, n)
	if lo >= n {
		panic("chunk index out of range")
	}
	return chunk{index: index, lo: lo, hi: hi}
}

// parallelFor runs fn once per chunk of an n-element range with at most
// workers chunks in flight. It returns after every chunk has finished.
func parallelFor(n, size, workers int, fn func(c chunk) error) error {
	count := chunkCount(n, size)
	if workers <= 1 || count == 1 {
		for i := 0; i < count; i++ {
			if err := fn(chunkAt(n, size, i)); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		c := chunkAt(n, size, i)
		g.Go(func() error {
			return fn(c)
		})
	}
	return g.Wait()
}

// streamFor returns the random stream owned by one chunk for one pass.
// Streams depend only on the seed, the generation and the chunk index, so
// output does not change with the number of workers.
func streamFor(seed, generation uint64, chunkIndex int) *rand.Rand {
	return rand.New(rand.NewPCG(seed^mix(generation), uint64(chunkIndex)))
}

// mix is the splitmix64 finalizer.
func mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
