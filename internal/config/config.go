package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Values that guard optional subsystems (media
// provider, mail relay) are allowed to be empty: the endpoints that need
// them answer with a server-misconfiguration error instead of failing
// startup, matching how the archive behaves in partial deployments.
type Config struct {
    Env             string // application environment (e.g. "dev", "prod")
    Port            string // HTTP port to listen on
    DBUser          string // database username
    DBPass          string // database password (optional)
    DBHost          string // database host address
    DBPort          string // database port number
    DBName          string // database name
    JWTSecret       string // secret used to sign JWTs
    TokenTTLDays    int    // bearer token time-to-live in days
    BcryptCost      int    // bcrypt cost for password hashing
    AdminEmail      string // operator-configured admin login email
    AdminPassword   string // operator-configured admin login password
    FrontendBaseURL string // base URL used when building reset links
    MediaCloudName  string // media provider account name (optional)
    MediaAPIKey     string // media provider API key (optional)
    MediaAPISecret  string // media provider API secret (optional)
    SMTPHost        string // mail relay host (optional; mail disabled when empty)
    SMTPPort        string // mail relay port
    SMTPUser        string // mail relay username
    SMTPPass        string // mail relay password
    SMTPFrom        string // From address on outgoing mail
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:             must("APP_ENV"),           // environment (dev/test/prod)
        Port:            must("APP_PORT"),          // port to bind the HTTP server
        DBUser:          must("DB_USER"),           // database user
        DBPass:          os.Getenv("DB_PASS"),      // database password (empty allowed)
        DBHost:          must("DB_HOST"),           // database host
        DBPort:          must("DB_PORT"),           // database port
        DBName:          must("DB_NAME"),           // database name
        JWTSecret:       must("JWT_SECRET"),        // secret used for signing JWTs
        TokenTTLDays:    mustInt("TOKEN_TTL_DAYS"), // TTL for bearer tokens in days
        BcryptCost:      mustInt("BCRYPT_COST"),    // bcrypt cost factor
        AdminEmail:      must("ADMIN_EMAIL"),       // admin login email
        AdminPassword:   must("ADMIN_PASSWORD"),    // admin login password
        FrontendBaseURL: getenv("FRONTEND_BASE_URL", "http://localhost:8080"),
        MediaCloudName:  os.Getenv("MEDIA_CLOUD_NAME"),
        MediaAPIKey:     os.Getenv("MEDIA_API_KEY"),
        MediaAPISecret:  os.Getenv("MEDIA_API_SECRET"),
        SMTPHost:        os.Getenv("SMTP_HOST"),
        SMTPPort:        getenv("SMTP_PORT", "587"),
        SMTPUser:        os.Getenv("SMTP_USER"),
        SMTPPass:        os.Getenv("SMTP_PASS"),
        SMTPFrom:        getenv("SMTP_FROM", "no-reply@heritage-archive.local"),
    }
}

// MediaConfigured reports whether all media-provider credentials are set.
// Upload endpoints must refuse to proceed when this is false.
func (c Config) MediaConfigured() bool {
    return c.MediaCloudName != "" && c.MediaAPIKey != "" && c.MediaAPISecret != ""
}

// MailConfigured reports whether the mail relay is usable.
func (c Config) MailConfigured() bool {
    return c.SMTPHost != ""
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

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
