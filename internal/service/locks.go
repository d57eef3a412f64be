package service

import (
	"hash/fnv"
	"sync"
)

const sessionLockShards = 32

// sessionLocks serializes work per session without keeping a mutex per
// session alive. Sessions that hash to the same shard share a lock.
type sessionLocks struct {
	shards [sessionLockShards]sync.Mutex
}

func (l *sessionLocks) lock(session string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(session))
	mu := &l.shards[h.Sum32()%sessionLockShards]
	mu.Lock()
	return mu.Unlock
}
