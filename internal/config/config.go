package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string        `yaml:"env" env-required:"true"`
	StoragePath string        `yaml:"storage_path" env-required:"true"`
	TokenTTL    time.Duration `yaml:"token_ttl" env-default:"1h"`
	HTTPServer  `yaml:"http_server"`
	Chain       `yaml:"chain"`
	Wallet      `yaml:"wallet"`
	Feed        `yaml:"feed"`
	Probe       `yaml:"probe"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" env-default:"localhost:8080"`
	Timeout      time.Duration `yaml:"timeout" env-default:"10s"`
	IddleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type Chain struct {
	RPCURL          string        `yaml:"rpc_url" env:"RPC_URL" env-default:"https://alfajores-forno.celo-testnet.org"`
	ChainID         int64         `yaml:"chain_id" env-default:"44787"`
	RegistryAddress string        `yaml:"registry_address" env-default:"0x67cAd8190A35De5ccc77985cb2575281192600a0"`
	TokenAddress    string        `yaml:"token_address" env-default:"0x874069Fa1Eb16D44d622F2e0Ca25eeA172369bC1"`
	Decimals        int           `yaml:"decimals" env-default:"18"`
	VoteFee         string        `yaml:"vote_fee" env-default:"2"`
	ReceiptTimeout  time.Duration `yaml:"receipt_timeout" env-default:"2m"`
}

type Wallet struct {
	KeystoreDir string `yaml:"keystore_dir" env-required:"true"`
	// Account selects the signing account. Empty means the first one.
	Account string `yaml:"account"`
}

type Feed struct {
	MaxInFlight int    `yaml:"max_in_flight" env-default:"16"`
	MaxVideos   uint64 `yaml:"max_videos" env-default:"10000"`
	Partial     bool   `yaml:"partial" env-default:"false"`
}

type Probe struct {
	Enabled bool          `yaml:"enabled" env-default:"false"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
