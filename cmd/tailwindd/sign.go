package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/peteruche21/tailwind-packages/cmd/tailwindd/setting"
	"github.com/peteruche21/tailwind-packages/discovery"
	"github.com/peteruche21/tailwind-packages/metrics"
	"github.com/peteruche21/tailwind-packages/provider"
	"github.com/peteruche21/tailwind-packages/signer"
	"github.com/peteruche21/tailwind-packages/types"
	"github.com/peteruche21/tailwind-packages/utils"
	"github.com/peteruche21/tailwind-packages/wallet"
)

const (
	chainFlag    = "chain"
	fromFlag     = "from"
	docFlag      = "doc"
	modeFlag     = "mode"
	maxGasFlag   = "max-gas"
	fundsFlag    = "funds"
	originFlag   = "origin"
	providerFlag = "provider"
	yesFlag      = "yes"

	defaultCLIOrigin = "tailwindd://cli"
)

type signOutput struct {
	Mode      types.SignMode     `json:"mode"`
	Signed    interface{}        `json:"signed"`
	Signature types.StdSignature `json:"signature"`
}

func getSignCmd() *cobra.Command {
	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "sign a document read from a JSON file",
		Long: `Signs a StdSignDoc (--mode amino) or a SignDoc (--mode direct) the way a dApp would:
the wallet is discovered first, funds and gas hints are declared, then the document is signed.
With --provider the wallet is a running tailwindd reached over websocket, otherwise the local keyring.`,
		RunE: signRunE,
	}
	signCmd.Flags().String(chainFlag, "", "chain id")
	signCmd.Flags().String(fromFlag, "", "key name or address, defaults to the first account")
	signCmd.Flags().String(docFlag, "", "JSON file holding the document")
	signCmd.Flags().String(modeFlag, string(types.SignModeDirect), "sign mode (direct|amino)")
	signCmd.Flags().Uint64(maxGasFlag, 0, "gas estimate declared before signing, 0 declares none")
	signCmd.Flags().StringSlice(fundsFlag, nil, "funds required as denom:chain:amount, repeatable")
	signCmd.Flags().String(originFlag, defaultCLIOrigin, "origin the request is made from")
	signCmd.Flags().String(providerFlag, "", "websocket url of a running provider, eg: ws://127.0.0.1:7878/ws")
	signCmd.Flags().BoolP(yesFlag, "y", false, "sign without confirmation")
	_ = signCmd.MarkFlagRequired(chainFlag)
	_ = signCmd.MarkFlagRequired(docFlag)
	return signCmd
}

// parseFunds reads denom:chain:amount entries.
func parseFunds(entries []string) ([]types.FundsRequirement, error) {
	out := make([]types.FundsRequirement, 0, len(entries))
	for _, e := range entries {
		parts := strings.Split(e, ":")
		if len(parts) != 3 {
			return nil, errors.Errorf("invalid funds %q, expected denom:chain:amount", e)
		}
		out = append(out, types.FundsRequirement{
			Token:  types.Token{Denom: parts[0], Chain: parts[1]},
			Amount: parts[2],
		})
	}
	return out, nil
}

func readSignRequest(path string, mode types.SignMode) (signer.SignRequest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return signer.SignRequest{}, errors.Wrap(err, "read document")
	}
	switch mode {
	case types.SignModeAmino:
		var doc types.StdSignDoc
		if err = json.Unmarshal(b, &doc); err != nil {
			return signer.SignRequest{}, errors.Wrap(types.ErrInvalidSignDoc, err.Error())
		}
		return signer.SignRequest{Amino: &doc}, nil
	case types.SignModeDirect:
		var doc types.SignDoc
		if err = json.Unmarshal(b, &doc); err != nil {
			return signer.SignRequest{}, errors.Wrap(types.ErrInvalidSignDoc, err.Error())
		}
		return signer.SignRequest{Direct: &doc}, nil
	}
	return signer.SignRequest{}, errors.Wrapf(signer.ErrSignModeNotSupported, "%s", mode)
}

func signRunE(cmd *cobra.Command, _ []string) error {
	chainID, _ := cmd.Flags().GetString(chainFlag)
	from, _ := cmd.Flags().GetString(fromFlag)
	docPath, _ := cmd.Flags().GetString(docFlag)
	mode, _ := cmd.Flags().GetString(modeFlag)
	maxGas, _ := cmd.Flags().GetUint64(maxGasFlag)
	fundsEntries, _ := cmd.Flags().GetStringSlice(fundsFlag)
	origin, _ := cmd.Flags().GetString(originFlag)
	providerURL, _ := cmd.Flags().GetString(providerFlag)
	yes, _ := cmd.Flags().GetBool(yesFlag)

	funds, err := parseFunds(fundsEntries)
	if err != nil {
		return err
	}
	opts := types.SignOptions{SignMode: types.SignMode(mode), FundsRequired: funds}
	if maxGas > 0 {
		opts.MaxGas = &maxGas
	}
	if err = opts.Validate(); err != nil {
		return err
	}
	req, err := readSignRequest(docPath, opts.Mode())
	if err != nil {
		return err
	}

	ch := discovery.NewChannel(discovery.StaticHost(discovery.StateComplete),
		discovery.WithPollInterval(setting.Config.PollInterval()),
		discovery.WithMaxWait(setting.Config.MaxWait()),
		discovery.WithDispatchHook(metrics.DiscoveryDispatches.Inc),
	)

	var kr *wallet.Keyring
	if providerURL != "" {
		defer provider.Attach(ch, providerURL, origin)()
	} else {
		var approver wallet.Approver = wallet.NewConsoleApprover()
		if yes {
			approver = wallet.AutoApprove{}
		}
		// the cli origin is granted for this run only
		kr, err = loadKeyring(approver, wallet.WithPermissions(wallet.NewPermissionStore("")))
		if err != nil {
			return err
		}
		if err = kr.Permissions().Enable(origin, chainID); err != nil {
			return err
		}
		defer ch.Subscribe(func(discovery.Event) {
			_ = ch.Register(kr.Session(origin))
		})()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w, err := ch.ObtainWallet(ctx)
	if err != nil {
		return err
	}
	if closer, ok := w.(*provider.Client); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	s, err := w.GetOfflineSigner(ctx, chainID)
	if err != nil {
		return err
	}
	address, err := resolveSigner(ctx, kr, s, chainID, from)
	if err != nil {
		return err
	}

	result, err := signer.SignWithOptions(ctx, s, chainID, address, req, opts)
	if err != nil {
		return err
	}
	out := signOutput{Mode: result.Mode, Signature: result.Signature()}
	if result.Amino != nil {
		out.Signed = result.Amino.Signed
	} else if result.Direct != nil {
		out.Signed = result.Direct.Signed
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	utils.DebugLogf("signed %s document for %s on %s", result.Mode, address, chainID)
	fmt.Println(string(b))
	return nil
}

// resolveSigner maps --from to an address. A key name is only known to the
// local keyring.
func resolveSigner(ctx context.Context, kr *wallet.Keyring, s signer.OfflineSigner, chainID, from string) (string, error) {
	if kr != nil && from != "" {
		chain, ok := kr.Chain(chainID)
		if !ok {
			return "", signer.ChainNotSupported(chainID)
		}
		for _, k := range kr.Keys() {
			if k.Name == from {
				return k.Address(chain)
			}
		}
	}
	if from != "" {
		return from, nil
	}

	accounts, err := s.GetAccounts(ctx)
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", signer.AccountNotFound(chainID, "")
	}
	return accounts[0].Address, nil
}
