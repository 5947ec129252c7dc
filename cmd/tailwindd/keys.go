package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/peteruche21/tailwind-packages/cmd/tailwindd/setting"
	"github.com/peteruche21/tailwind-packages/types"
	"github.com/peteruche21/tailwind-packages/utils"
	"github.com/peteruche21/tailwind-packages/utils/console"
	"github.com/peteruche21/tailwind-packages/wallet"
)

const (
	algoFlag    = "algo"
	hdPathFlag  = "hd-path"
	outputFlag  = "output"
	recoverFlag = "recover"
)

type keyOutput struct {
	Name      string            `json:"name" yaml:"name"`
	Algo      string            `json:"algo" yaml:"algo"`
	HDPath    string            `json:"hd_path" yaml:"hd_path"`
	PubKey    types.PubKey      `json:"pubkey" yaml:"pubkey"`
	Addresses map[string]string `json:"addresses" yaml:"addresses"`
}

func getKeysCmd() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "manage the keys of the wallet",
	}

	addCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "create a key from a new mnemonic",
		Args:  cobra.ExactArgs(1),
		RunE:  keysAddRunE,
	}
	addCmd.Flags().String(algoFlag, string(types.AlgoSecp256k1), "key algorithm (secp256k1 or ed25519)")
	addCmd.Flags().String(hdPathFlag, "", "derivation path, defaults to the path of the algorithm")
	addCmd.Flags().Bool(recoverFlag, false, "import an existing mnemonic instead of creating one")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list keys and their addresses on every chain",
		RunE:  keysListRunE,
	}
	listCmd.Flags().StringP(outputFlag, "o", "text", "output format (text|json|yaml)")

	keysCmd.AddCommand(addCmd, listCmd)
	return keysCmd
}

func keysAddRunE(cmd *cobra.Command, args []string) error {
	name := args[0]
	algo, _ := cmd.Flags().GetString(algoFlag)
	hdPath, _ := cmd.Flags().GetString(hdPathFlag)
	recoverKey, _ := cmd.Flags().GetBool(recoverFlag)
	if _, exists := setting.Config.FindKey(name); exists {
		return errors.Wrapf(wallet.ErrDuplicateKey, "name %s", name)
	}

	kr, err := loadKeyring(wallet.RejectAll{})
	if err != nil {
		return err
	}
	var mnemonic string
	if recoverKey {
		mnemonic, err = console.Stdin().PromptPassword("Enter your bip39 mnemonic: ")
		if err != nil {
			return err
		}
		mnemonic = strings.Join(strings.Fields(mnemonic), " ")
		err = kr.ImportMnemonic(name, mnemonic, types.Algo(algo), hdPath)
	} else {
		mnemonic, err = kr.NewMnemonicKey(name, types.Algo(algo), hdPath)
	}
	if err != nil {
		return err
	}

	file := filepath.Join("keys", name+".mnemonic")
	if err = writeMnemonic(file, mnemonic); err != nil {
		return err
	}
	setting.Config.Keys = append(setting.Config.Keys, setting.KeyConfig{
		Name:         name,
		Algo:         algo,
		HDPath:       hdPath,
		MnemonicFile: file,
	})
	configPath, err := configFilePath(cmd)
	if err != nil {
		return err
	}
	if err = setting.SaveConfig(configPath); err != nil {
		return err
	}

	utils.Logf("key %s created, mnemonic written to %s", name, homeRelative(file))
	if !recoverKey {
		fmt.Println("**Important** write this mnemonic phrase in a safe place.")
		fmt.Println(mnemonic)
	}
	for _, k := range kr.Keys() {
		if k.Name == name {
			return printKeys(kr, []*wallet.Key{k}, "text")
		}
	}
	return nil
}

func keysListRunE(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString(outputFlag)
	kr, err := loadKeyring(wallet.RejectAll{})
	if err != nil {
		return err
	}
	return printKeys(kr, kr.Keys(), output)
}

func describeKeys(kr *wallet.Keyring, keys []*wallet.Key) ([]keyOutput, error) {
	out := make([]keyOutput, 0, len(keys))
	for _, k := range keys {
		pk, err := types.NewPubKey(k.Algo, k.PubKey().Bytes())
		if err != nil {
			return nil, err
		}
		item := keyOutput{
			Name:      k.Name,
			Algo:      string(k.Algo),
			HDPath:    k.HDPath,
			PubKey:    pk,
			Addresses: make(map[string]string),
		}
		for _, chain := range kr.Chains() {
			addr, err := k.Address(chain)
			if err != nil {
				return nil, err
			}
			item.Addresses[chain.ChainID] = addr
		}
		out = append(out, item)
	}
	return out, nil
}

func printKeys(kr *wallet.Keyring, keys []*wallet.Key, output string) error {
	items, err := describeKeys(kr, keys)
	if err != nil {
		return err
	}

	switch output {
	case "json":
		b, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	case "yaml":
		b, err := utils.MarshalYaml(items)
		if err != nil {
			return err
		}
		fmt.Print(string(b))
	case "text", "":
		for _, item := range items {
			fmt.Printf("- %s (%s) %s\n", item.Name, item.Algo, item.HDPath)
			for _, chain := range kr.Chains() {
				fmt.Printf("    %-16s %s\n", chain.ChainID, item.Addresses[chain.ChainID])
			}
		}
	default:
		return errors.Errorf("unknown output format %q", output)
	}
	return nil
}
