package redisx_test

import (
	"testing"

	"github.com/ariefcatur/go-bookstore/internal/redisx"
	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "idem:cart:add:7:abc-123", redisx.IdemCartAddKey(7, "abc-123"))
	assert.Equal(t, "dedup:bookstore-auditor:e-1", redisx.DedupKey("bookstore-auditor", "e-1"))
}
