package config

import (
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	infuraAPIKey      = "INFURA_API_KEY"
	etherscanAPIKey   = "ETHERSCAN_API_KEY"
	keystorePathKey   = "KEYSTORE_PATH"
	keystorePassKey   = "KEYSTORE_PASSWORD"
	artifactsDirKey   = "ARTIFACTS_DIR"
	confirmTimeoutKey = "CONFIRM_TIMEOUT"
	pollIntervalKey   = "CONFIRM_POLL_INTERVAL"

	privateKeySuffix          = "_private_key"
	secondaryPrivateKeySuffix = "_private_key_secondary"

	// ethNodeURLPrefix keys add or override a network URL, e.g. ETH_NODE_URL_KOVAN.
	ethNodeURLPrefix = "eth_node_url_"

	// DefaultNetwork is used when no --network is given.
	DefaultNetwork = "localhost"
	// DefaultEnvFile is read from the working directory when present.
	DefaultEnvFile = ".env"
)

// Network is a named JSON-RPC endpoint and the accounts configured for it.
type Network struct {
	Name string
	URL  string
	// GasPrice forces a legacy gas price on every transaction; nil lets the node suggest.
	GasPrice *big.Int
	// Accounts holds hex private keys in priority order.
	Accounts []string
}

// Keystore points at an encrypted key file appended to the network accounts.
type Keystore struct {
	Path     string
	Password string
}

// Solc records the compiler settings the artifacts were built with.
type Solc struct {
	Version          string
	OptimizerEnabled bool
	OptimizerRuns    int
}

// Config is the process-wide configuration. It is built once by Load,
// checked by Validate and made read-only by Freeze before being injected.
type Config struct {
	Network         Network
	Keystore        Keystore
	// EtherscanAPIKey is reserved for contract verification; no task reads it yet.
	EtherscanAPIKey string
	ArtifactsDir    string
	ConfirmTimeout  time.Duration
	PollInterval    time.Duration
	Solc            Solc

	frozen bool
}

// LoadOptions selects the env file and active network.
type LoadOptions struct {
	EnvFile string
	Network string
}

// Load reads configuration from the env file (if it exists) and the process
// environment, the latter taking precedence.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetDefault(artifactsDirKey, "artifacts")
	v.SetDefault(confirmTimeoutKey, "5m")
	v.SetDefault(pollIntervalKey, "2s")

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, NewError(fmt.Sprintf("failed to read env file %s", envFile), err)
		}
	} else if opts.EnvFile != "" {
		return nil, NewError(fmt.Sprintf("env file %s not found", envFile), err)
	}

	// Bind node URL overrides present only in the environment so AllKeys sees them.
	for _, kv := range os.Environ() {
		key := strings.SplitN(kv, "=", 2)[0]
		if strings.HasPrefix(strings.ToLower(key), ethNodeURLPrefix) {
			if err := v.BindEnv(strings.ToLower(key), key); err != nil {
				return nil, errors.Wrapf(err, "failed to bind %s", key)
			}
		}
	}

	networkName := strings.ToLower(strings.TrimSpace(opts.Network))
	if networkName == "" {
		networkName = DefaultNetwork
	}

	networks := builtinNetworks(v.GetString(infuraAPIKey))
	for _, key := range v.AllKeys() {
		// viper.AllKeys() returns all keys in lowercase
		if !strings.HasPrefix(key, ethNodeURLPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, ethNodeURLPrefix)
		n := networks[name]
		n.Name = name
		n.URL = v.GetString(key)
		networks[name] = n
	}

	network, ok := networks[networkName]
	if !ok {
		network = Network{Name: networkName}
	}
	network.Accounts = accountsFor(v, networkName)

	timeout, err := parseDuration(v, confirmTimeoutKey)
	if err != nil {
		return nil, err
	}
	poll, err := parseDuration(v, pollIntervalKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		Network: network,
		Keystore: Keystore{
			Path:     v.GetString(keystorePathKey),
			Password: v.GetString(keystorePassKey),
		},
		EtherscanAPIKey: v.GetString(etherscanAPIKey),
		ArtifactsDir:    v.GetString(artifactsDirKey),
		ConfirmTimeout:  timeout,
		PollInterval:    poll,
		Solc:            DefaultSolc(),
	}, nil
}

func accountsFor(v *viper.Viper, network string) []string {
	var accounts []string
	for _, key := range []string{network + privateKeySuffix, network + secondaryPrivateKeySuffix} {
		if pk := strings.TrimSpace(v.GetString(key)); pk != "" {
			accounts = append(accounts, pk)
		}
	}
	return accounts
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s %q", key, raw)
	}
	return d, nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if c.Network.Name == "" {
		return errors.New("no network selected")
	}
	if c.Network.Name == "buidlerevm" {
		return errors.New("the in-process buidlerevm network is not available; run a node and use --network localhost")
	}
	if c.Network.URL == "" {
		return errors.Errorf("unknown network %q: set ETH_NODE_URL_%s or pick one of %s",
			c.Network.Name, strings.ToUpper(c.Network.Name), strings.Join(KnownNetworks(), ", "))
	}
	if strings.HasSuffix(c.Network.URL, "/v3/") {
		return errors.Errorf("network %q requires %s", c.Network.Name, infuraAPIKey)
	}
	if c.Keystore.Path != "" && c.Keystore.Password == "" {
		return errors.Errorf("%s is set but %s is empty", keystorePathKey, keystorePassKey)
	}
	if c.ArtifactsDir == "" {
		return errors.Errorf("%s must not be empty", artifactsDirKey)
	}
	if c.ConfirmTimeout <= 0 {
		return errors.Errorf("%s must be positive", confirmTimeoutKey)
	}
	if c.PollInterval <= 0 || c.PollInterval > c.ConfirmTimeout {
		return errors.Errorf("%s must be positive and not exceed %s", pollIntervalKey, confirmTimeoutKey)
	}
	return nil
}

// Freeze validates the configuration and marks it read-only.
func (c *Config) Freeze() error {
	if c.frozen {
		return nil
	}
	if err := c.Validate(); err != nil {
		return NewError("invalid configuration", err)
	}
	c.frozen = true
	return nil
}

// Frozen reports whether Freeze succeeded.
func (c *Config) Frozen() bool {
	return c.frozen
}

// KnownNetworks lists the built-in network names.
func KnownNetworks() []string {
	names := make([]string, 0)
	for name := range builtinNetworks("") {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
