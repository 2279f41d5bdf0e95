package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB        DBConfig
	MySQL     MySQLConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Server    ServerConfig
	Qdrant    QdrantConfig
	Vector    VectorConfig
	Embedding EmbeddingConfig
	LLM       LLMConfig
	Detection DetectionConfig
}

type DBConfig struct {
	DBPath string // Путь к файлу SQLite
}

type MySQLConfig struct {
	DSN string
}

type StorageConfig struct {
	Driver string // sqlite | mysql
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	LockTTL  time.Duration
}

type KafkaConfig struct {
	Enabled          bool
	Brokers          []string
	TransactionTopic string
	ConsumerGroupID  string
}

type ServerConfig struct {
	DashboardPort int
	WorkerPort    int
}

type QdrantConfig struct {
	Host string
	Port int
}

type VectorConfig struct {
	Backend               string // sqlite | qdrant
	Path                  string // файл SQLite для локального бэкенда
	TransactionCollection string
	ChatCollection        string
	Dimension             int
	SyncTimeout           time.Duration
}

type EmbeddingConfig struct {
	Provider string // gemini | openai
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

type LLMConfig struct {
	Provider string // gemini | openai
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
}

type DetectionConfig struct {
	Threshold       float64
	DedupWindow     time.Duration
	BusinessBatch   int
	TxLimit         int
	MinTransactions int
	Trees           int
	SampleSize      int
	Seed            int64
	Features        []string
	ThrottleEnabled bool
	ThrottleWindow  time.Duration
	Interval        time.Duration
	TriggerTimeout  time.Duration
}

func Load() *Config {
	// Загружаем .env файл, если он существует
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("Failed to read config file %s: %v", path, err)
		}
	}

	return &Config{
		DB: DBConfig{
			DBPath: v.GetString("DB_PATH"),
		},
		MySQL: MySQLConfig{
			DSN: v.GetString("MYSQL_DSN"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			LockTTL:  v.GetDuration("REDIS_LOCK_TTL"),
		},
		Kafka: KafkaConfig{
			Enabled:          v.GetBool("KAFKA_ENABLED"),
			Brokers:          splitList(v.GetString("KAFKA_BROKERS")),
			TransactionTopic: v.GetString("KAFKA_TRANSACTION_TOPIC"),
			ConsumerGroupID:  v.GetString("KAFKA_CONSUMER_GROUP"),
		},
		Server: ServerConfig{
			DashboardPort: v.GetInt("DASHBOARD_SERVICE_PORT"),
			WorkerPort:    v.GetInt("ANOMALY_WORKER_PORT"),
		},
		Qdrant: QdrantConfig{
			Host: v.GetString("QDRANT_HOST"),
			Port: v.GetInt("QDRANT_PORT"),
		},
		Vector: VectorConfig{
			Backend:               strings.ToLower(v.GetString("VECTOR_BACKEND")),
			Path:                  v.GetString("VECTOR_DB_PATH"),
			TransactionCollection: v.GetString("VECTOR_TRANSACTION_COLLECTION"),
			ChatCollection:        v.GetString("VECTOR_CHAT_COLLECTION"),
			Dimension:             v.GetInt("VECTOR_DIMENSION"),
			SyncTimeout:           v.GetDuration("VECTOR_SYNC_TIMEOUT"),
		},
		Embedding: EmbeddingConfig{
			Provider: strings.ToLower(v.GetString("EMBEDDING_PROVIDER")),
			APIKey:   v.GetString("EMBEDDING_API_KEY"),
			BaseURL:  v.GetString("EMBEDDING_BASE_URL"),
			Model:    v.GetString("EMBEDDING_MODEL"),
			Timeout:  v.GetDuration("EMBEDDING_TIMEOUT"),
		},
		LLM: LLMConfig{
			Provider: strings.ToLower(v.GetString("LLM_PROVIDER")),
			APIKey:   v.GetString("LLM_API_KEY"),
			BaseURL:  v.GetString("LLM_BASE_URL"),
			Model:    v.GetString("LLM_MODEL"),
			Timeout:  v.GetDuration("LLM_TIMEOUT"),
		},
		Detection: DetectionConfig{
			Threshold:       v.GetFloat64("DETECTION_THRESHOLD"),
			DedupWindow:     v.GetDuration("DETECTION_DEDUP_WINDOW"),
			BusinessBatch:   v.GetInt("DETECTION_BUSINESS_BATCH"),
			TxLimit:         v.GetInt("DETECTION_TX_LIMIT"),
			MinTransactions: v.GetInt("DETECTION_MIN_TRANSACTIONS"),
			Trees:           v.GetInt("DETECTION_TREES"),
			SampleSize:      v.GetInt("DETECTION_SAMPLE_SIZE"),
			Seed:            v.GetInt64("DETECTION_SEED"),
			Features:        splitList(v.GetString("DETECTION_FEATURES")),
			ThrottleEnabled: v.GetBool("DETECTION_THROTTLE_ENABLED"),
			ThrottleWindow:  v.GetDuration("DETECTION_THROTTLE_WINDOW"),
			Interval:        v.GetDuration("DETECTION_INTERVAL"),
			TriggerTimeout:  v.GetDuration("DETECTION_TRIGGER_TIMEOUT"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_PATH", "./data/cashflow.db")
	v.SetDefault("MYSQL_DSN", "root:root@tcp(127.0.0.1:3306)/cashflow?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("STORAGE_DRIVER", "sqlite")

	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_LOCK_TTL", "5m")

	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_TRANSACTION_TOPIC", "dashboard.transactions.changed")
	v.SetDefault("KAFKA_CONSUMER_GROUP", "anomaly-worker-group")

	v.SetDefault("DASHBOARD_SERVICE_PORT", 8080)
	v.SetDefault("ANOMALY_WORKER_PORT", 8081)

	v.SetDefault("QDRANT_HOST", "localhost")
	v.SetDefault("QDRANT_PORT", 6334)

	v.SetDefault("VECTOR_BACKEND", "sqlite")
	v.SetDefault("VECTOR_DB_PATH", "./data/vectors.db")
	v.SetDefault("VECTOR_TRANSACTION_COLLECTION", "transactions_v2")
	v.SetDefault("VECTOR_CHAT_COLLECTION", "chat_history_v2")
	v.SetDefault("VECTOR_DIMENSION", 768)
	v.SetDefault("VECTOR_SYNC_TIMEOUT", "15s")

	v.SetDefault("EMBEDDING_PROVIDER", "gemini")
	v.SetDefault("EMBEDDING_MODEL", "text-embedding-004")
	v.SetDefault("EMBEDDING_TIMEOUT", "15s")

	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("LLM_MODEL", "gemini-2.0-flash")
	v.SetDefault("LLM_TIMEOUT", "60s")

	v.SetDefault("DETECTION_THRESHOLD", 0.5)
	v.SetDefault("DETECTION_DEDUP_WINDOW", "24h")
	v.SetDefault("DETECTION_BUSINESS_BATCH", 5)
	v.SetDefault("DETECTION_TX_LIMIT", 50)
	v.SetDefault("DETECTION_MIN_TRANSACTIONS", 5)
	v.SetDefault("DETECTION_TREES", 100)
	v.SetDefault("DETECTION_SAMPLE_SIZE", 256)
	v.SetDefault("DETECTION_SEED", 42)
	v.SetDefault("DETECTION_FEATURES", "amount")
	v.SetDefault("DETECTION_THROTTLE_ENABLED", true)
	v.SetDefault("DETECTION_THROTTLE_WINDOW", "24h")
	v.SetDefault("DETECTION_INTERVAL", "30m")
	v.SetDefault("DETECTION_TRIGGER_TIMEOUT", "2m")
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
