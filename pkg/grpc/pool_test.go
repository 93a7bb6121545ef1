package grpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ReusesConnection(t *testing.T) {
	p := NewPool()

	a, err := p.GetConnection("passthrough:///ledger-a")
	require.NoError(t, err)
	b, err := p.GetConnection("passthrough:///ledger-a")
	require.NoError(t, err)
	c, err := p.GetConnection("passthrough:///ledger-b")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	require.NoError(t, p.Close())
}

func TestPool_ReplacesClosedConnection(t *testing.T) {
	p := NewPool()
	defer p.Close()

	a, err := p.GetConnection("passthrough:///ledger")
	require.NoError(t, err)
	require.NoError(t, a.Close())

	b, err := p.GetConnection("passthrough:///ledger")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}
