package fundpool_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EricInMarkham/fundpool"
)

func TestVersion(t *testing.T) {
	fundpool.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", fundpool.Version())

	fundpool.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", fundpool.Version())
}
