package engine

import (
	"bytes"
	"context"

	pool "github.com/jolestar/go-commons-pool"
)

// Output buffers are short-lived and sized like their input. To avoid
// growing a fresh buffer on every call we pool them.
type bufferPool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

var globalBufferPool *bufferPool

func init() {
	globalBufferPool = &bufferPool{ctx: context.Background()}
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return new(bytes.Buffer), nil
		})
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1 // unbounded
	config.BlockWhenExhausted = false
	globalBufferPool.opool = pool.NewObjectPool(globalBufferPool.ctx, factory, config)
}

// borrowBuffer returns an empty buffer. It never fails: if the pool cannot
// supply one a fresh buffer is allocated.
func borrowBuffer() *bytes.Buffer {
	o, err := globalBufferPool.opool.BorrowObject(globalBufferPool.ctx)
	if err != nil {
		return new(bytes.Buffer)
	}
	buf := o.(*bytes.Buffer)
	buf.Reset()
	return buf
}

// releaseBuffer clears buf and puts it back into the pool.
func releaseBuffer(buf *bytes.Buffer) {
	buf.Reset()
	_ = globalBufferPool.opool.ReturnObject(globalBufferPool.ctx, buf)
}
