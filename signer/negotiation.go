package signer

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/types"
)

// Hints are the declarations consumed by one sign call.
type Hints struct {
	// Funds holds one entry per (denom, source chain, dst chain), in first-declared order.
	Funds  []types.FundsRequired
	MaxGas *uint64
}

func (h Hints) Empty() bool {
	return len(h.Funds) == 0 && h.MaxGas == nil
}

type fundsKey struct {
	denom, chain, dstChain string
}

// Negotiator holds the negotiation state of one signer instance.
//
// Funds declarations accumulate, keyed by token and destination chain; a
// repeated key overwrites the earlier amount. The gas estimate is
// last-declared-wins. Consume hands the state to a sign call and resets it.
type Negotiator struct {
	mu     sync.Mutex
	funds  []types.FundsRequired
	index  map[fundsKey]int
	maxGas *uint64
}

func NewNegotiator() *Negotiator {
	return &Negotiator{index: make(map[fundsKey]int)}
}

func (n *Negotiator) DeclareFundsRequired(funds types.FundsRequired) error {
	if err := funds.Validate(); err != nil {
		return errors.Wrap(err, "declare funds required")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.index == nil {
		n.index = make(map[fundsKey]int)
	}

	key := fundsKey{funds.Token.Denom, funds.Token.Chain, funds.DstChain}
	if i, ok := n.index[key]; ok {
		n.funds[i] = funds
		return nil
	}
	n.index[key] = len(n.funds)
	n.funds = append(n.funds, funds)
	return nil
}

func (n *Negotiator) DeclareMaxGasEstimate(gas uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.maxGas = &gas
}

// Peek returns a copy of the current state without consuming it.
func (n *Negotiator) Peek() Hints {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.snapshot()
}

// Consume returns the current state and resets it.
func (n *Negotiator) Consume() Hints {
	n.mu.Lock()
	defer n.mu.Unlock()
	h := n.snapshot()
	n.funds = nil
	n.index = make(map[fundsKey]int)
	n.maxGas = nil
	return h
}

func (n *Negotiator) snapshot() Hints {
	var h Hints
	if len(n.funds) > 0 {
		h.Funds = append([]types.FundsRequired(nil), n.funds...)
	}
	if n.maxGas != nil {
		gas := *n.maxGas
		h.MaxGas = &gas
	}
	return h
}
