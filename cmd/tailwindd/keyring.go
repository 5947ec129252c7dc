package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/peteruche21/tailwind-packages/cmd/tailwindd/setting"
	"github.com/peteruche21/tailwind-packages/types"
	"github.com/peteruche21/tailwind-packages/utils"
	"github.com/peteruche21/tailwind-packages/wallet"
)

// loadKeyring builds the keyring described by the loaded config.
// Options in opts are applied after the configured ones.
func loadKeyring(approver wallet.Approver, opts ...wallet.Option) (*wallet.Keyring, error) {
	cfg := setting.Config

	permissionsPath := ""
	if cfg.Provider.PermissionsFile != "" {
		permissionsPath = homeRelative(cfg.Provider.PermissionsFile)
	}
	permissions := wallet.NewPermissionStore(permissionsPath)
	if err := permissions.Load(); err != nil {
		return nil, err
	}
	permissions.SetStatic(cfg.Permissions)

	kr := wallet.NewKeyring(append([]wallet.Option{
		wallet.WithApprover(approver),
		wallet.WithPermissions(permissions),
	}, opts...)...)
	for _, chain := range cfg.Chains {
		if err := kr.AddChain(chain); err != nil {
			return nil, err
		}
	}
	for _, k := range cfg.Keys {
		mnemonic, err := readMnemonic(k.MnemonicFile)
		if err != nil {
			return nil, errors.Wrapf(err, "key %s", k.Name)
		}
		if err = kr.ImportMnemonic(k.Name, mnemonic, types.Algo(k.Algo), k.HDPath); err != nil {
			return nil, err
		}
	}
	utils.DebugLogf("keyring loaded with %d chains and %d keys", len(cfg.Chains), len(cfg.Keys))
	return kr, nil
}

func readMnemonic(file string) (string, error) {
	if file == "" {
		return "", errors.New("no mnemonic file configured")
	}
	b, err := os.ReadFile(homeRelative(file))
	if err != nil {
		return "", errors.Wrap(err, "read mnemonic file")
	}
	return strings.TrimSpace(string(b)), nil
}

func writeMnemonic(file, mnemonic string) error {
	path := homeRelative(file)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("mnemonic file %s already exists", path)
	}
	return os.WriteFile(path, []byte(mnemonic+"\n"), 0600)
}

func homeRelative(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(setting.HomePath, path)
}
