package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHostFromDSN(t *testing.T) {
	assert.Equal(t, "localhost:9000", hostFromDSN("localhost:9000"))
	assert.Equal(t, "ch.internal:9000", hostFromDSN("ch.internal:9000?dial_timeout=10s&compress=true"))
	assert.Equal(t, "", hostFromDSN("?dial_timeout=10s"))
}
