package setting

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/peteruche21/tailwind-packages/discovery"
	"github.com/peteruche21/tailwind-packages/wallet"
)

func TestGenAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, GenDefaultConfig(path))
	require.NoError(t, LoadConfig(path))

	require.Equal(t, VERSION, Config.Version.Show)
	require.Equal(t, discovery.DefaultPollInterval, Config.PollInterval())
	require.Zero(t, Config.MaxWait())
	require.Len(t, Config.Chains, 2)
	require.Equal(t, "osmo", Config.Chains[1].Bech32Prefix)

	Config.Keys = append(Config.Keys, KeyConfig{Name: "main", Algo: "secp256k1", MnemonicFile: "keys/main.mnemonic"})
	Config.Permissions = append(Config.Permissions, wallet.Grant{Origin: "https://app.example", ChainID: "osmosis-1"})
	Config.Discovery.MaxWaitMs = 1500
	require.NoError(t, SaveConfig(path))

	require.NoError(t, LoadConfig(path))
	key, ok := Config.FindKey("main")
	require.True(t, ok)
	require.Equal(t, "keys/main.mnemonic", key.MnemonicFile)
	require.Equal(t, 1500*time.Millisecond, Config.MaxWait())
	require.Equal(t, "https://app.example", Config.Permissions[0].Origin)
}

func TestLoadMissingConfig(t *testing.T) {
	require.Error(t, LoadConfig(filepath.Join(t.TempDir(), "nope.toml")))
}
