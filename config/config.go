package config

import (
	"os"
	"path"

	"github.com/kelseyhightower/envconfig"
	"github.com/naoina/toml"
	"github.com/openweb3/wallet-core/common/utils"
)

// EnvPrefix is the prefix for environment overrides, e.g. OPENWEB3_RPC_URL.
const EnvPrefix = "OPENWEB3"

type Common struct {
	Level       string // debug, dev, prod
	ServiceName string
}

type LogInfo struct {
	Path       string
	MaxAgeHour int
	RotateHour int
}

type DB struct {
	Engine string // leveldb, bbolt
	Path   string
}

type Keystore struct {
	ScryptN          int
	ScryptP          int
	MnemonicStrength int // entropy bits: 128 (12 words) .. 256 (24 words)
}

type Server struct {
	Host     string
	RestPort int

	// throttling of unlock, create and import per client host
	PasswordAttemptsPerMinute int
	PasswordBurst             int
	PasswordBanSec            int
}

type RPC struct {
	URL        string // empty disables balance lookups
	TimeoutSec int
}

type Config struct {
	Common   Common
	LogInfo  LogInfo
	DB       DB
	Keystore Keystore
	Server   Server
	RPC      RPC
}

func NewConfig(filepath string) (*Config, error) {
	if filepath == "" {
		workDir, _ := os.Getwd()
		rootDir := utils.FindProjectRoot(workDir)
		filepath = path.Join(rootDir, "config", "config.toml")
	}

	if file, err := os.Open(filepath); err != nil {
		return nil, err
	} else {
		defer file.Close()

		c := new(Config)
		if err := toml.NewDecoder(file).Decode(c); err != nil {
			return nil, err
		}
		if err := envconfig.Process(EnvPrefix, c); err != nil {
			return nil, err
		}
		c.sanitize()
		return c, nil
	}
}

// Default returns the configuration used when no file is given to the CLI helpers and tests.
func Default() *Config {
	c := &Config{
		Common:  Common{Level: "prod", ServiceName: "openweb3-walletd"},
		LogInfo: LogInfo{Path: "~/.openweb3/logs/walletd", MaxAgeHour: 24 * 7, RotateHour: 24},
		DB:      DB{Engine: "leveldb", Path: "~/.openweb3/wallet.db"},
		Server:  Server{Host: "127.0.0.1", RestPort: 8547},
		RPC:     RPC{TimeoutSec: 10},
	}
	c.sanitize()
	return c
}

func (p *Config) sanitize() {
	p.LogInfo.Path = utils.ExpandHome(p.LogInfo.Path)
	p.DB.Path = utils.ExpandHome(p.DB.Path)

	if p.DB.Engine == "" {
		p.DB.Engine = "leveldb"
	}
	if p.Keystore.ScryptN <= 0 {
		p.Keystore.ScryptN = 1 << 18
	}
	if p.Keystore.ScryptP <= 0 {
		p.Keystore.ScryptP = 1
	}
	if p.Keystore.MnemonicStrength == 0 {
		p.Keystore.MnemonicStrength = 128
	}
	if p.Server.Host == "" {
		p.Server.Host = "127.0.0.1"
	}
	if p.Server.PasswordAttemptsPerMinute <= 0 {
		p.Server.PasswordAttemptsPerMinute = 10
	}
	if p.Server.PasswordBurst <= 0 {
		p.Server.PasswordBurst = 5
	}
	if p.Server.PasswordBanSec <= 0 {
		p.Server.PasswordBanSec = 60
	}
	if p.RPC.TimeoutSec <= 0 {
		p.RPC.TimeoutSec = 10
	}
}

func (p *Config) GetConfig() *Config {
	return p
}

func (p *Config) GetLogInfoConfig() *LogInfo {
	return &p.LogInfo
}
