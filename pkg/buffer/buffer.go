package buffer

import (
	"go.uber.org/atomic"

	"github.com/Ehco1996/myftp/internal/constant"
)

// 全局pool
var DatagramBufferPool *BytePool

func init() {
	DatagramBufferPool = NewBytePool(constant.BUFFER_POOL_SIZE, constant.DatagramBufSize)
}

// BytePool implements a leaky pool of []byte in the form of a bounded channel.
// Every buffer handed out by Get is fully set to the fill byte.
type BytePool struct {
	c    chan []byte
	size int

	reused  atomic.Int64
	created atomic.Int64
}

// NewBytePool creates a new BytePool bounded to the given maxSize, with new
// byte arrays sized based on width.
func NewBytePool(maxSize int, size int) (bp *BytePool) {
	return &BytePool{
		c:    make(chan []byte, maxSize),
		size: size,
	}
}

// Get gets a []byte from the BytePool, or creates a new one if none are available in the pool.
func (bp *BytePool) Get() (b []byte) {
	select {
	case b = <-bp.c:
		// reuse existing buffer, wipe what the previous owner left in it
		Fill(b)
		bp.reused.Inc()
	default:
		// create new buffer, make already zeroes it
		b = make([]byte, bp.size)
		bp.created.Inc()
	}
	return
}

// Put returns the given Buffer to the BytePool.
func (bp *BytePool) Put(b []byte) {
	if cap(b) < bp.size {
		return
	}
	select {
	case bp.c <- b[:bp.size]:
		// buffer went back into pool
	default:
		// buffer didn't go back into pool, just discard
	}
}

func (bp *BytePool) Size() int {
	return bp.size
}

// Stats returns how many Get calls were served from the pool and how many allocated.
func (bp *BytePool) Stats() (reused, created int64) {
	return bp.reused.Load(), bp.created.Load()
}

// Fill resets every byte of b to the fill pattern.
func Fill(b []byte) {
	for i := range b {
		b[i] = constant.FillByte
	}
}
