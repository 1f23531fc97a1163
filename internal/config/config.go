package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Warehouse struct {
	Host         string
	Port         string
	DB           string
	Token        string
	ClientID     string
	ClientSecret string
	ClusterID    string
	Schema       string
	SSLMode      string
}

type Tables struct {
	OrdersLocation   string
	InvoicesLocation string
	DataDir          string
}

type Kafka struct {
	Brokers []string
	Topic   string
	Group   string
	Workers int
}

type Breaker struct {
	Threshold   uint32
	OpenTimeout time.Duration
	MaxHalfOpen uint32
}

type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

type Config struct {
	HTTPAddr string
	CacheCap int

	Warehouse Warehouse
	Tables    Tables
	Kafka     Kafka
	Breaker   Breaker
	Retry     Retry
}

// Load keeps the original API and fatals on error for simplicity in main().
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	cfg := Config{
		HTTPAddr: envDefault("HTTP_ADDR", ":8081"),
		CacheCap: envInt("CACHE_CAP", 1000),

		Warehouse: Warehouse{
			Host:         strings.TrimSpace(os.Getenv("WAREHOUSE_HOST")),
			Port:         strings.TrimSpace(envDefault("WAREHOUSE_PORT", "5432")),
			DB:           strings.TrimSpace(envDefault("WAREHOUSE_DB", "lakeview")),
			Token:        strings.TrimSpace(os.Getenv("WAREHOUSE_TOKEN")),
			ClientID:     strings.TrimSpace(os.Getenv("WAREHOUSE_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("WAREHOUSE_CLIENT_SECRET")),
			ClusterID:    strings.TrimSpace(os.Getenv("WAREHOUSE_CLUSTER_ID")),
			Schema:       strings.TrimSpace(envDefault("WAREHOUSE_SCHEMA", "public")),
			SSLMode:      strings.TrimSpace(envDefault("WAREHOUSE_SSLMODE", "require")),
		},

		Tables: Tables{
			OrdersLocation:   strings.TrimSpace(envDefault("TBL_ORDERS_LOCATION", "/tmp/delta/orders")),
			InvoicesLocation: strings.TrimSpace(envDefault("TBL_INVOICES_LOCATION", "/tmp/delta/order_invoices")),
			DataDir:          strings.TrimSpace(envDefault("DATA_DIR", "lakeview_data")),
		},

		Kafka: Kafka{
			Brokers: splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:   strings.TrimSpace(os.Getenv("KAFKA_TOPIC")),
			Group:   strings.TrimSpace(os.Getenv("KAFKA_GROUP")),
			Workers: envInt("KAFKA_WORKERS", 4),
		},

		Breaker: Breaker{
			Threshold:   envUint32("BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envUint32("BREAKER_MAXHALFOPEN", 3),
		},

		Retry: Retry{
			Attempts:     envInt("RETRY_ATTEMPTS", 3),
			Base:         envDurationMS("RETRY_BASE", 100*time.Millisecond),
			Max:          envDurationMS("RETRY_MAX", 2*time.Second),
			JitterFactor: envFloat64("RETRY_JITTERFACTOR", 0.3),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.CacheCap <= 0 {
		cfg.CacheCap = 1
	}
	if cfg.Retry.Base <= 0 {
		cfg.Retry.Base = 100 * time.Millisecond
	}
	return cfg, nil
}

func (c Config) validate() error {
	// Warehouse credentials are optional: without a usable set the manager
	// simply starts in local mode. Half a client-credential pair is the one
	// configuration that cannot mean anything.
	if (c.Warehouse.ClientID == "") != (c.Warehouse.ClientSecret == "") {
		if c.Warehouse.ClientID == "" {
			return &missingEnvError{Keys: []string{"WAREHOUSE_CLIENT_ID"}}
		}
		return &missingEnvError{Keys: []string{"WAREHOUSE_CLIENT_SECRET"}}
	}

	// Kafka ingest is optional too, but a partial setup is a mistake.
	if len(c.Kafka.Brokers) > 0 {
		var missing []string
		if c.Kafka.Topic == "" {
			missing = append(missing, "KAFKA_TOPIC")
		}
		if c.Kafka.Group == "" {
			missing = append(missing, "KAFKA_GROUP")
		}
		if len(missing) > 0 {
			return &missingEnvError{Keys: missing}
		}
	}

	if c.CacheCap <= 0 {
		log.Printf("CACHE_CAP is %d, adjusting to 1", c.CacheCap)
	}
	if c.Retry.Base <= 0 {
		log.Printf("RETRY_BASE is %v, adjusting to 100ms", c.Retry.Base)
	}
	return nil
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

// HasCredentials reports whether the warehouse config is usable at all:
// a host plus either a token or a full client-id/secret pair.
func (w Warehouse) HasCredentials() bool {
	if w.Host == "" {
		return false
	}
	return (w.ClientID != "" && w.ClientSecret != "") || w.Token != ""
}

// DSN builds the warehouse connection URL. A client-id/secret pair takes
// precedence over a token; a bare token signs in as the dedicated "token"
// user, the way the managed service expects personal tokens to be presented.
func (w Warehouse) DSN() string {
	var user *url.Userinfo
	switch {
	case w.ClientID != "" && w.ClientSecret != "":
		user = url.UserPassword(w.ClientID, w.ClientSecret)
	case w.Token != "":
		user = url.UserPassword("token", w.Token)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   user,
		Host:   net.JoinHostPort(w.Host, w.Port),
		Path:   "/" + w.DB,
	}
	q := url.Values{}
	if w.SSLMode != "" {
		q.Set("sslmode", w.SSLMode)
	}
	if w.ClusterID != "" {
		q.Set("application_name", w.ClusterID)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envUint32(k string, def uint32) uint32 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return uint32(u)
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

// envDurationMS supports either plain integer milliseconds ("1500") or
// Go duration strings ("1.5s", "250ms", "2m").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
