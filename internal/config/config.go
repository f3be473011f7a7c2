package config

import (
	"github.com/ZilDuck/lazy-marketplace/internal/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"math/big"
	"strconv"
	"strings"
	"sync"
)

type Config struct {
	Env       string
	Network   string
	Index     string
	Debug     bool
	LogPath   string
	SentryDsn string
	ChainID   uint64

	Owner            string
	BackendSigner    string
	BackendSignerKey string

	MetadataRetries int
	IpfsHosts       []string
	IpfsTimeout     int

	Marketplace   MarketplaceConfig
	Staff         StaffConfig
	Rpc           RpcConfig
	ElasticSearch ElasticSearchConfig
	Aws           AwsConfig
}

type MarketplaceConfig struct {
	Address       string
	DomainName    string
	DomainVersion string
	Currency      string
	FeeWallets    []string
	Collections   []string
}

type StaffConfig struct {
	Address       string
	DomainName    string
	DomainVersion string
	BaseURI       string
}

type RpcConfig struct {
	Port    string
	Url     string
	Timeout int
	Debug   bool
}

type AwsConfig struct {
	AccessKey string
	SecretKey string
	Token     string
	Region    string
	QueueUrl  string
}

type ElasticSearchConfig struct {
	Hosts            []string
	Aws              bool
	MappingDir       string
	Sniff            bool
	HealthCheck      bool
	Debug            bool
	Username         string
	Password         string
	BulkPersistCount int
	Refresh          string
}

var ipfsHosts = []string{
	"https://gateway.pinata.cloud",
	"https://cloudflare-ipfs.com",
	"https://gateway.ipfs.io",
}

var (
	env     *viper.Viper
	envOnce sync.Once
)

func Init() {
	if err := godotenv.Load(".env"); err != nil {
		zap.L().With(zap.Error(err)).Warn("Config: No .env file loaded")
	}

	initLogger()
}

func initLogger() {
	c := Get()
	log.NewLogger(c.LogPath, c.Debug, c.SentryDsn)
}

// IsDev enables the development only operations, such as crediting accounts.
func (c *Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "test"
}

func Get() *Config {
	return &Config{
		Env:              getString("ENV", "prod"),
		Network:          getString("NETWORK", "lazy"),
		Index:            getString("INDEX_NAME", "marketplace"),
		Debug:            getBool("DEBUG", false),
		LogPath:          getString("LOG_PATH", ""),
		SentryDsn:        getString("SENTRY_DSN", ""),
		ChainID:          getUint64("CHAIN_ID", 31337),
		Owner:            getString("OWNER_ADDRESS", ""),
		BackendSigner:    getString("BACKEND_SIGNER", ""),
		BackendSignerKey: getString("BACKEND_SIGNER_KEY", ""),
		MetadataRetries:  getInt("METADATA_RETRIES", 3),
		IpfsHosts:        getSlice("IPFS_HOSTS", ipfsHosts, ","),
		IpfsTimeout:      getInt("IPFS_TIMEOUT", 10),
		Marketplace: MarketplaceConfig{
			Address:       getString("MARKETPLACE_ADDRESS", "0x000000000000000000000000000000000000e5c0"),
			DomainName:    getString("MARKETPLACE_DOMAIN_NAME", "Lazy Soccer Marketplace"),
			DomainVersion: getString("DOMAIN_VERSION", "1"),
			Currency:      getString("CURRENCY_ADDRESS", ""),
			FeeWallets:    getSlice("FEE_WALLETS", make([]string, 0), ","),
			Collections:   getSlice("AVAILABLE_COLLECTIONS", make([]string, 0), ","),
		},
		Staff: StaffConfig{
			Address:       getString("STAFF_ADDRESS", "0x0000000000000000000000000000000000005aff"),
			DomainName:    getString("STAFF_DOMAIN_NAME", "Lazy Staff"),
			DomainVersion: getString("DOMAIN_VERSION", "1"),
			BaseURI:       getString("STAFF_BASE_URI", "ipfs://"),
		},
		Rpc: RpcConfig{
			Port:    getString("RPC_PORT", "8545"),
			Url:     getString("RPC_URL", "http://localhost:8545/rpc"),
			Timeout: getInt("RPC_TIMEOUT", 30),
			Debug:   getBool("RPC_DEBUG", false),
		},
		Aws: AwsConfig{
			AccessKey: getString("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getString("AWS_SECRET_KEY_ID", ""),
			Token:     getString("AWS_SESSION_TOKEN", ""),
			Region:    getString("AWS_REGION", "eu-west-1"),
			QueueUrl:  getString("SQS_QUEUE_URL", ""),
		},
		ElasticSearch: ElasticSearchConfig{
			Hosts:            getSlice("ELASTIC_SEARCH_HOSTS", make([]string, 0), ","),
			Aws:              getBool("ELASTIC_SEARCH_AWS", false),
			MappingDir:       getString("ELASTIC_SEARCH_MAPPING_DIR", "./mappings"),
			Sniff:            getBool("ELASTIC_SEARCH_SNIFF", true),
			HealthCheck:      getBool("ELASTIC_SEARCH_HEALTH_CHECK", true),
			Debug:            getBool("ELASTIC_SEARCH_DEBUG", false),
			Username:         getString("ELASTIC_SEARCH_USERNAME", ""),
			Password:         getString("ELASTIC_SEARCH_PASSWORD", ""),
			BulkPersistCount: getInt("ELASTIC_SEARCH_BULK_PERSIST_COUNT", 300),
			Refresh:          getString("ELASTIC_SEARCH_REFRESH", "wait_for"),
		},
	}
}

func environment() *viper.Viper {
	envOnce.Do(func() {
		env = viper.New()
		env.AutomaticEnv()
	})
	return env
}

func getString(key string, defaultValue string) string {
	if value := environment().GetString(key); value != "" {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, _, err := big.ParseFloat(valStr, 10, 0, big.ToNearestEven)
	if err != nil {
		return defaultValue
	}

	intVal, _ := val.Int64()
	return int(intVal)
}

func getUint64(key string, defaultValue uint64) uint64 {
	valStr := getString(key, "")
	val, err := strconv.ParseUint(valStr, 10, 64)
	if err != nil {
		return defaultValue
	}

	return val
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}

func getSlice(key string, defaultVal []string, sep string) []string {
	valStr := getString(key, "")
	if valStr == "" {
		return defaultVal
	}

	values := make([]string, 0)
	for _, v := range strings.Split(valStr, sep) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	return values
}
