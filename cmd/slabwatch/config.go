package main

import "time"

const (
	defaultBindHost      = "0.0.0.0"
	defaultAPIPort       = 8080
	defaultQueryTimeout  = 30 * time.Second
	defaultTokenTTL      = 60 * time.Minute
	defaultRetentionDays = 0 // days, 0 = keep expired searches forever
	defaultJWTSecret     = "dev-secret-change-me"
)

// appConfig is internal runtime configuration.
// It is package-private to keep defaults and shape local to the CLI entrypoint.
type appConfig struct {
	APIPort       int           `mapstructure:"api-port"`
	APIAddr       string        `mapstructure:"api-addr"`
	DBPath        string        `mapstructure:"db-path"`
	StaticDir     string        `mapstructure:"static-dir"`
	QueryTimeout  time.Duration `mapstructure:"query-timeout"`
	JWTSecret     string        `mapstructure:"jwt-secret"`
	TokenTTL      time.Duration `mapstructure:"token-ttl"`
	RetentionDays int           `mapstructure:"saved-retention"`
	EbayToken     string        `mapstructure:"ebay-token"`
	GoogleAPIKey  string        `mapstructure:"google-api-key"`
	GoogleCX      string        `mapstructure:"google-cx"`

	BackupEnabled        bool          `mapstructure:"backup-enabled"`
	BackupInterval       time.Duration `mapstructure:"backup-interval"`
	BackupLocalDir       string        `mapstructure:"backup-local-dir"`
	BackupKeepLast       int           `mapstructure:"backup-keep-last"`
	BackupBucketURL      string        `mapstructure:"backup-bucket-url"`
	BackupS3Endpoint     string        `mapstructure:"backup-s3-endpoint"`
	BackupS3Region       string        `mapstructure:"backup-s3-region"`
	BackupS3AccessKey    string        `mapstructure:"backup-s3-access-key"`
	BackupS3SecretKey    string        `mapstructure:"backup-s3-secret-key"`
	BackupS3SessionToken string        `mapstructure:"backup-s3-session-token"`
	BackupS3UseSSL       bool          `mapstructure:"backup-s3-use-ssl"`

	ConfigPath string `mapstructure:"-"` // not from config file
}
