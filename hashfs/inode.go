package hashfs

import (
	"errors"
	"sync"
)

// rootInode is reserved for the filesystem root.
const rootInode = 1

// ErrInodeNotFound is returned when reverse-resolving an inode nothing
// registered.
var ErrInodeNotFound = errors.New("inode not found in registry")

// inodeRegistry issues stable inode numbers for node keys. Inodes must
// not change between lookups of the same entry or the kernel's dentry
// cache and userspace stat results start disagreeing.
type inodeRegistry struct {
	mu    sync.Mutex
	next  uint64
	byKey map[string]uint64
	byIno map[uint64]string
}

func newInodeRegistry() *inodeRegistry {
	return &inodeRegistry{
		next:  rootInode,
		byKey: make(map[string]uint64),
		byIno: make(map[uint64]string),
	}
}

// inodeFor returns the inode registered for key, allocating the next
// number on first use.
func (r *inodeRegistry) inodeFor(key string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ino, ok := r.byKey[key]; ok {
		return ino
	}
	r.next++
	r.byKey[key] = r.next
	r.byIno[r.next] = key
	return r.next
}

// keyFor reverse-resolves an inode to its registered key.
func (r *inodeRegistry) keyFor(ino uint64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key, ok := r.byIno[ino]
	if !ok {
		return "", ErrInodeNotFound
	}
	return key, nil
}

// size reports how many keys hold inodes.
func (r *inodeRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}
