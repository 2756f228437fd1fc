package log

import (
	"slices"
	"sync"
)

// A Context adds fields to every log entry. Typical use is to stamp entries
// with the emulated time (frame number, cycle, etc.).
type Context interface {
	AddLogContext(z *EntryZ)
}

var (
	ctxmu    sync.RWMutex
	contexts []Context
)

func AddContext(ctx Context) {
	ctxmu.Lock()
	defer ctxmu.Unlock()
	contexts = append(contexts, ctx)
}

func RemoveContext(ctx Context) {
	ctxmu.Lock()
	defer ctxmu.Unlock()
	if i := slices.Index(contexts, ctx); i >= 0 {
		contexts = slices.Delete(contexts, i, i+1)
	}
}

func addContexts(z *EntryZ) {
	ctxmu.RLock()
	defer ctxmu.RUnlock()
	for _, c := range contexts {
		c.AddLogContext(z)
	}
}
