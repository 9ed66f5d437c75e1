package pool

import "sync"

// NewDynamic is a dynamic-size pool of slots. It is a wrapper around sync.Pool,
// used by runtime.Runtime to recycle blocking-offload worker tokens without
// bounding their count.
func NewDynamic(newFn func() interface{}) Pool {
	return &sync.Pool{New: newFn}
}
