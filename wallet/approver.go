package wallet

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/types"
	"github.com/peteruche21/tailwind-packages/utils"
	"github.com/peteruche21/tailwind-packages/utils/console"
)

// ApprovalRequest is shown to the user before signing. Exactly one of Amino
// and Direct is set; the approver may edit it in place.
type ApprovalRequest struct {
	PrepareRequest
	Mode   types.SignMode
	Amino  *types.StdSignDoc
	Direct *types.SignDoc
}

// Doc returns the document to sign.
func (r *ApprovalRequest) Doc() types.Doc {
	if r.Amino != nil {
		return *r.Amino
	}
	return *r.Direct
}

// Summary renders the request for a human.
func (r *ApprovalRequest) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s requests a %s signature from %s on %s\n", r.Origin, r.Mode, r.Address, r.ChainID)
	for _, line := range DescribeDoc(r.Doc()) {
		fmt.Fprintf(&sb, "  %s\n", line)
	}
	for _, f := range r.Hints.Funds {
		fmt.Fprintf(&sb, "  requires %s %s (from %s) on %s\n", f.Amount, f.Token.Denom, f.Token.Chain, f.DstChain)
	}
	if r.Hints.MaxGas != nil {
		fmt.Fprintf(&sb, "  max gas %d\n", *r.Hints.MaxGas)
	}
	return sb.String()
}

// Approver decides whether a request gets signed. Returning an error aborts
// signing; rejections wrap signer.ErrUserRejected.
type Approver interface {
	Approve(ctx context.Context, req *ApprovalRequest) error
}

type ApproverFunc func(ctx context.Context, req *ApprovalRequest) error

func (f ApproverFunc) Approve(ctx context.Context, req *ApprovalRequest) error {
	return f(ctx, req)
}

// AutoApprove signs everything unchanged.
type AutoApprove struct{}

func (AutoApprove) Approve(context.Context, *ApprovalRequest) error {
	return nil
}

// RejectAll rejects everything.
type RejectAll struct{}

func (RejectAll) Approve(_ context.Context, req *ApprovalRequest) error {
	return signer.UserRejected(req.ChainID, req.Address, "")
}

type Prompter interface {
	Confirm(prompt string, def bool) (bool, error)
}

// ConsoleApprover asks on the terminal, one request at a time. A terminal
// prompt cannot be interrupted: when ctx ends first the request fails, the
// prompt stays open until answered and its answer is discarded. The next
// request is not shown before then.
type ConsoleApprover struct {
	Prompter Prompter

	once sync.Once
	turn chan struct{}
}

func NewConsoleApprover() *ConsoleApprover {
	return &ConsoleApprover{Prompter: console.Stdin()}
}

func (a *ConsoleApprover) acquire(ctx context.Context) error {
	a.once.Do(func() {
		a.turn = make(chan struct{}, 1)
	})
	select {
	case a.turn <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *ConsoleApprover) Approve(ctx context.Context, req *ApprovalRequest) error {
	if err := a.acquire(ctx); err != nil {
		return err
	}
	type answer struct {
		ok  bool
		err error
	}
	done := make(chan answer, 1)
	go func() {
		defer func() { <-a.turn }()
		fmt.Print(req.Summary())
		ok, err := a.Prompter.Confirm("Sign? [y/N]: ", false)
		done <- answer{ok, err}
	}()

	select {
	case <-ctx.Done():
		utils.WarnLogf("sign request for %s on %s cancelled, the pending answer will be ignored", req.Address, req.ChainID)
		return ctx.Err()
	case ans := <-done:
		if ans.err != nil {
			return ans.err
		}
		if !ans.ok {
			return signer.UserRejected(req.ChainID, req.Address, "declined on console")
		}
		return nil
	}
}
