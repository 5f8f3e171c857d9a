package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

var errOutputCollision = errors.New("output collision")

// outputClaims records which source owns each JSON output path in one run.
type outputClaims struct {
	mu     sync.Mutex
	owners map[string]string
}

func newOutputClaims() *outputClaims {
	return &outputClaims{owners: map[string]string{}}
}

// claim reserves out for src. Claiming the same path again for the same src is allowed.
func (c *outputClaims) claim(out, src string) error {
	key := filepath.Clean(out)
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if owner, ok := c.owners[key]; ok && owner != src {
		return fmt.Errorf("%w: %s already written for %s", errOutputCollision, out, owner)
	}
	c.owners[key] = src
	return nil
}
