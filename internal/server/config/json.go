package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vidhub/internal/flagx"
	"github.com/dmitrijs2005/vidhub/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
// Pointers distinguish "absent" from zero values for bools and ints.
type JsonConfig struct {
	HTTPAddr      string `json:"http_addr"`
	StorageDriver string `json:"storage_driver"`
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`
	DatabaseDSN   string `json:"database_dsn"`

	AccessTokenSecret            string         `json:"access_token_secret"`
	RefreshTokenSecret           string         `json:"refresh_token_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	CookieSecure                 *bool          `json:"cookie_secure"`
	CookieSameSite               string         `json:"cookie_same_site"`

	MediaDriver     string `json:"media_driver"`
	S3RootUser      string `json:"s3_root_user"`
	S3RootPassword  string `json:"s3_root_password"`
	S3Bucket        string `json:"s3_bucket"`
	S3Region        string `json:"s3_region"`
	S3BaseEndpoint  string `json:"s3_base_endpoint"`
	S3PublicBaseURL string `json:"s3_public_base_url"`

	PublicDir       string `json:"public_dir"`
	UploadTempDir   string `json:"upload_temp_dir"`
	JSONBodyLimit   *int   `json:"json_body_limit"`
	UploadBodyLimit *int   `json:"upload_body_limit"`
	CORSOrigin      string `json:"cors_origin"`

	RedisAddr       string         `json:"redis_addr"`
	RedisPassword   string         `json:"redis_password"`
	RedisDB         *int           `json:"redis_db"`
	LoginRateLimit  *int           `json:"login_rate_limit"`
	LoginRateWindow timex.Duration `json:"login_rate_window"`

	LogFormat string `json:"log_format"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $VIDHUB_CONFIG) onto config. Keys missing from the file leave the current
// value untouched. An unreadable file or invalid JSON panics, as a broken
// config file must stop startup.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFilePath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.MongoURI, c.MongoURI)
	setString(&config.MongoDatabase, c.MongoDatabase)
	setString(&config.DatabaseDSN, c.DatabaseDSN)

	setString(&config.AccessTokenSecret, c.AccessTokenSecret)
	setString(&config.RefreshTokenSecret, c.RefreshTokenSecret)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setString(&config.CookieSameSite, c.CookieSameSite)

	setString(&config.MediaDriver, c.MediaDriver)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)

	setString(&config.PublicDir, c.PublicDir)
	setString(&config.UploadTempDir, c.UploadTempDir)
	setInt(&config.JSONBodyLimit, c.JSONBodyLimit)
	setInt(&config.UploadBodyLimit, c.UploadBodyLimit)
	setString(&config.CORSOrigin, c.CORSOrigin)

	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setInt(&config.RedisDB, c.RedisDB)
	setInt(&config.LoginRateLimit, c.LoginRateLimit)
	if c.LoginRateWindow.Duration > 0 {
		config.LoginRateWindow = c.LoginRateWindow.Duration
	}

	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
