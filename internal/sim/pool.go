package sim

import "sync"

// BufferPool recycles fixed-size value buffers between trials.
type BufferPool struct {
	pool sync.Pool
	size int
}

func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		size: size,
		pool: sync.Pool{
			New: func() interface{} {
				return make([]float64, size)
			},
		},
	}
}

func (p *BufferPool) Get() []float64 {
	return p.pool.Get().([]float64)
}

// Put returns buf to the pool; buffers of another size are dropped.
func (p *BufferPool) Put(buf []float64) {
	if len(buf) == p.size {
		p.pool.Put(buf)
	}
}

func (p *BufferPool) GetAndCopy(src []float64) []float64 {
	dst := p.Get()
	copy(dst, src)
	return dst
}
