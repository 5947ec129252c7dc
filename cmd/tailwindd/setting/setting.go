package setting

import (
	"os"
	"time"

	"github.com/peteruche21/tailwind-packages/discovery"
	"github.com/peteruche21/tailwind-packages/utils"
	"github.com/peteruche21/tailwind-packages/wallet"
)

var Config *config
var HomePath string

const (
	VERSION     = "v0.1.0"
	APP_VER     = 1
	MIN_APP_VER = 1
)

type Version struct {
	AppVer    uint16 `toml:"app_ver"`
	MinAppVer uint16 `toml:"min_app_ver"`
	Show      string `toml:"show"`
}

type DiscoveryConfig struct {
	PollIntervalMs int64 `toml:"poll_interval_ms" comment:"Interval between readiness checks. Eg: 100"`
	MaxWaitMs      int64 `toml:"max_wait_ms" comment:"Give up waiting for the wallet after this long. 0 waits forever"`
}

type ProviderConfig struct {
	ListenAddress   string   `toml:"listen_address" comment:"Address of the websocket provider Eg: \"127.0.0.1:7878\""`
	AllowedOrigins  []string `toml:"allowed_origins" comment:"dApp origins allowed to connect. Empty allows every origin"`
	AutoApprove     bool     `toml:"auto_approve" comment:"Sign without asking on the console. Do not enable outside of tests"`
	PermissionsFile string   `toml:"permissions_file" comment:"Grants made at runtime, relative to home"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Port    string `toml:"port"`
}

type LogConfig struct {
	Level string `toml:"level" comment:"One of detail, debug, info, warn, error"`
	File  string `toml:"file" comment:"Log file, relative to home"`
}

type KeyConfig struct {
	Name         string `toml:"name"`
	Algo         string `toml:"algo"`
	HDPath       string `toml:"hd_path"`
	MnemonicFile string `toml:"mnemonic_file" comment:"File holding the mnemonic, relative to home"`
}

type config struct {
	Version     Version            `toml:"version"`
	Discovery   DiscoveryConfig    `toml:"discovery"`
	Provider    ProviderConfig     `toml:"provider"`
	Metrics     MetricsConfig      `toml:"metrics"`
	Log         LogConfig          `toml:"log"`
	Chains      []wallet.ChainInfo `toml:"chains"`
	Keys        []KeyConfig        `toml:"keys"`
	Permissions []wallet.Grant     `toml:"permissions" comment:"Grants always enabled at startup"`
}

func (c *config) PollInterval() time.Duration {
	if c.Discovery.PollIntervalMs <= 0 {
		return discovery.DefaultPollInterval
	}
	return time.Duration(c.Discovery.PollIntervalMs) * time.Millisecond
}

func (c *config) MaxWait() time.Duration {
	if c.Discovery.MaxWaitMs <= 0 {
		return 0
	}
	return time.Duration(c.Discovery.MaxWaitMs) * time.Millisecond
}

func (c *config) FindKey(name string) (KeyConfig, bool) {
	for _, k := range c.Keys {
		if k.Name == name {
			return k, true
		}
	}
	return KeyConfig{}, false
}

func LoadConfig(path string) error {
	Config = new(config)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		utils.Log("The config at location", path, "does not exist")
		return err
	}

	return utils.LoadTomlConfig(Config, path)
}

// SaveConfig writes the loaded config back to path.
func SaveConfig(path string) error {
	return utils.WriteTomlConfig(Config, path)
}

func defaultConfig() *config {
	return &config{
		Version: Version{AppVer: APP_VER, MinAppVer: MIN_APP_VER, Show: VERSION},
		Discovery: DiscoveryConfig{
			PollIntervalMs: discovery.DefaultPollInterval.Milliseconds(),
			MaxWaitMs:      0,
		},
		Provider: ProviderConfig{
			ListenAddress:   "127.0.0.1:7878",
			AllowedOrigins:  []string{},
			AutoApprove:     false,
			PermissionsFile: "config/permissions.json",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    "18181",
		},
		Log: LogConfig{
			Level: "info",
			File:  "tmp/logs/stdout.log",
		},
		Chains: []wallet.ChainInfo{
			{ChainID: "cosmoshub-4", Bech32Prefix: "cosmos", FeeDenom: "uatom"},
			{ChainID: "osmosis-1", Bech32Prefix: "osmo", FeeDenom: "uosmo"},
		},
		Keys:        []KeyConfig{},
		Permissions: []wallet.Grant{},
	}
}

func GenDefaultConfig(filePath string) error {
	cfg := defaultConfig()

	return utils.WriteTomlConfig(cfg, filePath)
}
