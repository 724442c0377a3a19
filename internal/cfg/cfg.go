package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/go-cart/pkg/e"
	"github.com/DRSN-tech/go-cart/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Драйверы слота корзины.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMinio    = "minio"
)

type Config struct {
	LogLevel string
	Http     *HTTPConfig
	Slot     *SlotCfg
	Cart     *CartCfg
	Db       *PGDBCfg  // только для SLOT_DRIVER=postgres
	Redis    *RedisCfg // только для SLOT_DRIVER=redis
	Minio    *MinIOCfg // только для SLOT_DRIVER=minio
	Kafka    *KafkaCfg // nil, если KAFKA_BROKERS не задан
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// SlotCfg описывает хранилище корзины.
type SlotCfg struct {
	Driver        string
	Key           string // ключ слота внутри сессии
	CookieName    string // cookie с идентификатором сессии
	CookieMaxAge  time.Duration
	OpTimeout     time.Duration // таймаут одного чтения/записи
	RetryAttempts int
	RetryBase     time.Duration
	RetryMax      time.Duration
}

// CartCfg — правила расчёта и параметры страницы.
type CartCfg struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFee           decimal.Decimal
	TaxRate               decimal.Decimal
	DefaultColor          string
	StepperMin            int
	StepperMax            int
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет, в котором лежат корзины
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
}

type PGDBCfg struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	CartTTL     time.Duration // 0 — без истечения, как у localStorage
}

// Load загружает .env (если есть) и конфигурацию из окружения.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("failed to read .env: %v", err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	slot, err := loadSlotCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cart, err := loadCartCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	config := &Config{
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		Http:     http,
		Slot:     slot,
		Cart:     cart,
	}

	switch slot.Driver {
	case DriverMemory:
	case DriverRedis:
		if config.Redis, err = loadRedisCfg(log); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	case DriverPostgres:
		if config.Db, err = loadPGDBCfg(log); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	case DriverMinio:
		if config.Minio, err = loadMinIOCfg(log); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	default:
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %q", e.ErrUnknownSlotDriver, slot.Driver))
	}

	if config.Kafka, err = loadKafkaCfg(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return config, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadSlotCfg(log logger.Logger) (*SlotCfg, error) {
	const (
		defaultDriver        = DriverMemory
		defaultKey           = "cart"
		defaultCookieName    = "cart_session"
		defaultCookieMaxAge  = 365 * 24 * time.Hour
		defaultOpTimeout     = 2 * time.Second
		defaultRetryAttempts = 3
		defaultRetryBase     = 50 * time.Millisecond
		defaultRetryMax      = time.Second
	)

	cookieMaxAge, err := parseDurationEnv("SESSION_COOKIE_MAX_AGE", defaultCookieMaxAge)
	if err != nil {
		log.Errorf(err, "invalid SESSION_COOKIE_MAX_AGE")
		return nil, err
	}

	opTimeout, err := parseDurationEnv("SLOT_TIMEOUT", defaultOpTimeout)
	if err != nil {
		log.Errorf(err, "invalid SLOT_TIMEOUT")
		return nil, err
	}

	attempts, err := parseIntEnv("SLOT_RETRY_ATTEMPTS", defaultRetryAttempts)
	if err == nil && attempts < 1 {
		err = e.ErrIncorrectEnvVariable
	}
	if err != nil {
		log.Errorf(err, "invalid SLOT_RETRY_ATTEMPTS")
		return nil, e.Wrap("SLOT_RETRY_ATTEMPTS", err)
	}

	retryBase, err := parseDurationEnv("SLOT_RETRY_BASE", defaultRetryBase)
	if err != nil {
		log.Errorf(err, "invalid SLOT_RETRY_BASE")
		return nil, err
	}

	retryMax, err := parseDurationEnv("SLOT_RETRY_MAX", defaultRetryMax)
	if err != nil {
		log.Errorf(err, "invalid SLOT_RETRY_MAX")
		return nil, err
	}

	return &SlotCfg{
		Driver:        strings.ToLower(getEnvOrDefault("SLOT_DRIVER", defaultDriver)),
		Key:           getEnvOrDefault("SLOT_KEY", defaultKey),
		CookieName:    getEnvOrDefault("SESSION_COOKIE", defaultCookieName),
		CookieMaxAge:  cookieMaxAge,
		OpTimeout:     opTimeout,
		RetryAttempts: attempts,
		RetryBase:     retryBase,
		RetryMax:      retryMax,
	}, nil
}

func loadCartCfg(log logger.Logger) (*CartCfg, error) {
	const (
		defaultThreshold   = "25"
		defaultShippingFee = "5.99"
		defaultTaxRate     = "0.08"
		defaultColor       = "black"
		defaultStepperMin  = 1
		defaultStepperMax  = 10
	)

	threshold, err := parseDecimalEnv("FREE_SHIPPING_THRESHOLD", defaultThreshold)
	if err != nil {
		log.Errorf(err, "invalid FREE_SHIPPING_THRESHOLD")
		return nil, err
	}

	fee, err := parseDecimalEnv("SHIPPING_FEE", defaultShippingFee)
	if err != nil {
		log.Errorf(err, "invalid SHIPPING_FEE")
		return nil, err
	}

	rate, err := parseDecimalEnv("TAX_RATE", defaultTaxRate)
	if err != nil {
		log.Errorf(err, "invalid TAX_RATE")
		return nil, err
	}

	stepperMin, err := parseIntEnv("STEPPER_MIN", defaultStepperMin)
	if err != nil {
		log.Errorf(err, "invalid STEPPER_MIN")
		return nil, e.Wrap("STEPPER_MIN", err)
	}

	stepperMax, err := parseIntEnv("STEPPER_MAX", defaultStepperMax)
	if err != nil {
		log.Errorf(err, "invalid STEPPER_MAX")
		return nil, e.Wrap("STEPPER_MAX", err)
	}

	if stepperMin < 1 || stepperMax < stepperMin {
		err := fmt.Errorf("%w: stepper bounds [%d, %d]", e.ErrIncorrectEnvVariable, stepperMin, stepperMax)
		log.Errorf(err, "invalid stepper bounds")
		return nil, err
	}

	return &CartCfg{
		FreeShippingThreshold: threshold,
		ShippingFee:           fee,
		TaxRate:               rate,
		DefaultColor:          getEnvOrDefault("DEFAULT_COLOR", defaultColor),
		StepperMin:            stepperMin,
		StepperMax:            stepperMax,
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "cart-events"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, nil
	}
	brokers := strings.Split(brokerStr, ",")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL   = false
		defaultEndpoint = "minio:9000"
		defaultBucket   = "carts"
	)

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	return &MinIOCfg{
		MinioEndpoint:     getEnvOrDefault("MINIO_ENDPOINT", defaultEndpoint),
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultSSLMode        = "disable"
		defaultMigrationsPath = "db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultCartTTL      = 0
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	cartTTL, err := parseDurationEnv("CART_TTL", defaultCartTTL)
	if err != nil {
		log.Errorf(err, "invalid CART_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		CartTTL:     cartTTL,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

// parseDecimalEnv считывает неотрицательное десятичное число.
func parseDecimalEnv(key, defaultValue string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnvOrDefault(key, defaultValue))
	if err != nil || d.IsNegative() {
		return decimal.Zero, e.Wrap(key, e.ErrIncorrectEnvVariable)
	}

	return d, nil
}
