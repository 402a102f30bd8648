package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strings"
)

// Storage drivers accepted in STORE_DRIVER.
const (
    DriverMySQL = "mysql"
    DriverMongo = "mongo"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env               string // application environment (e.g. "development", "production")
    Port              string // HTTP port to listen on
    LogDebug          bool   // force debug-level logging
    StoreDriver       string // mysql or mongo
    DBUser            string // database username
    DBPass            string // database password (optional)
    DBHost            string // database host address
    DBPort            string // database port number
    DBName            string // database name
    MongoURI          string // MongoDB connection string
    MongoDB           string // MongoDB database name
    JWTSecret         string // secret used to sign JWTs
    AccessTTLMin      int    // access token time‑to‑live in minutes
    RefreshTTLDays    int    // refresh token time‑to‑live in days
    BcryptCost        int    // bcrypt cost for password hashing
    AllowAdminSignup  bool   // whether register may create admin accounts
    CORSOrigin        string // allowed browser origin
    AMQPURL           string // RabbitMQ URL; empty disables event publishing
    EventsConsumer    bool   // run the audit consumer inside the server process
    EventsLogDir      string // directory the audit consumer writes to
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    cfg := Config{
        Env:              getenv("APP_ENV", "development"),
        Port:             getenv("APP_PORT", "5000"),
        LogDebug:         envBool("LOG_DEBUG", false),
        StoreDriver:      strings.ToLower(getenv("STORE_DRIVER", DriverMySQL)),
        JWTSecret:        must("JWT_SECRET"),
        AccessTTLMin:     envInt("ACCESS_TOKEN_TTL_MIN", 60),
        RefreshTTLDays:   envInt("REFRESH_TOKEN_TTL_DAYS", 7),
        BcryptCost:       envInt("BCRYPT_COST", 10),
        AllowAdminSignup: envBool("ALLOW_ADMIN_SIGNUP", false),
        CORSOrigin:       getenv("CORS_ORIGIN", "http://localhost:5173"),
        AMQPURL:          AMQPURL(),
        EventsConsumer:   envBool("EVENTS_CONSUMER", false),
        EventsLogDir:     getenv("EVENTS_LOG_DIR", "logs"),
    }
    switch cfg.StoreDriver {
    case DriverMySQL:
        cfg.DBUser = must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = getenv("DB_PORT", "3306")
        cfg.DBName = must("DB_NAME")
    case DriverMongo:
        cfg.MongoURI = must("MONGO_URI")
        cfg.MongoDB = getenv("MONGO_DB", "movie_catalog")
    default:
        log.Fatalf("unsupported STORE_DRIVER: %q", cfg.StoreDriver)
    }
    return cfg
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c Config) IsProduction() bool { return c.Env == "production" }

// AMQPURL returns the broker URL from RABBITMQ_URL or AMQP_URL.  Unlike the
// other settings there is no default: an empty value disables events.
func AMQPURL() string {
    if v := os.Getenv("RABBITMQ_URL"); v != "" {
        return v
    }
    return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}
