package signer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peteruche21/tailwind-packages/types"
)

func atom(amount, dst string) types.FundsRequired {
	return types.FundsRequired{Token: types.Token{Denom: "uatom", Chain: "cosmoshub-4"}, Amount: amount, DstChain: dst}
}

func TestNegotiatorAccumulates(t *testing.T) {
	n := NewNegotiator()
	require.True(t, n.Peek().Empty())

	require.NoError(t, n.DeclareFundsRequired(atom("1", "osmosis-1")))
	require.NoError(t, n.DeclareFundsRequired(types.FundsRequired{Token: types.Token{Denom: "uosmo", Chain: "osmosis-1"}, Amount: "5", DstChain: "osmosis-1"}))
	require.NoError(t, n.DeclareFundsRequired(atom("1000000", "osmosis-1")))
	require.NoError(t, n.DeclareFundsRequired(atom("3", "juno-1")))
	n.DeclareMaxGasEstimate(100)
	n.DeclareMaxGasEstimate(200000)

	h := n.Peek()
	require.Len(t, h.Funds, 3)
	require.Equal(t, "1000000", h.Funds[0].Amount)
	require.Equal(t, "uosmo", h.Funds[1].Token.Denom)
	require.Equal(t, "juno-1", h.Funds[2].DstChain)
	require.Equal(t, uint64(200000), *h.MaxGas)

	consumed := n.Consume()
	require.Equal(t, h, consumed)
	require.True(t, n.Consume().Empty())
}

func TestNegotiatorRejectsInvalid(t *testing.T) {
	n := NewNegotiator()
	require.Error(t, n.DeclareFundsRequired(atom("-1", "osmosis-1")))
	require.Error(t, n.DeclareFundsRequired(types.FundsRequired{Amount: "1"}))
	require.True(t, n.Peek().Empty())
}

func TestNegotiatorSnapshotIsolated(t *testing.T) {
	n := NewNegotiator()
	n.DeclareMaxGasEstimate(10)
	h := n.Peek()
	*h.MaxGas = 99
	require.Equal(t, uint64(10), *n.Peek().MaxGas)
}

func TestNegotiatorConcurrent(t *testing.T) {
	n := &Negotiator{}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = n.DeclareFundsRequired(atom("1", "osmosis-1"))
		}()
		go func(gas uint64) {
			defer wg.Done()
			n.DeclareMaxGasEstimate(gas)
			n.Consume()
		}(uint64(i))
	}
	wg.Wait()
	require.LessOrEqual(t, len(n.Peek().Funds), 1)
}
