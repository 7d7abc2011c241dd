package config

import (
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vidhub/internal/timex"
	"github.com/joho/godotenv"
)

// parseEnv loads the given dotenv files (".env" when none are given; a
// missing file is not an error) and overlays every recognised environment
// variable onto config. Variables already present in the process
// environment win over the dotenv file. Malformed numbers and durations
// are ignored and keep the previous value.
func parseEnv(config *Config, files ...string) {
	_ = godotenv.Load(files...)

	override := func(env string, apply func(string)) {
		if v := os.Getenv(env); v != "" {
			apply(v)
		}
	}
	overrideInt := func(env string, dst *int) {
		override(env, func(v string) {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		})
	}
	overrideDuration := func(env string, dst *time.Duration) {
		override(env, func(v string) {
			if d, err := timex.ParseDuration(v); err == nil {
				*dst = d
			}
		})
	}

	override("PORT", func(v string) { config.HTTPAddr = ":" + v })
	override("HTTP_ADDR", func(v string) { config.HTTPAddr = v })
	override("STORAGE_DRIVER", func(v string) { config.StorageDriver = v })
	override("MONGODB_URI", func(v string) { config.MongoURI = v })
	override("MONGODB_DATABASE", func(v string) { config.MongoDatabase = v })
	override("DATABASE_DSN", func(v string) { config.DatabaseDSN = v })

	override("ACCESS_TOKEN_SECRET", func(v string) { config.AccessTokenSecret = v })
	override("REFRESH_TOKEN_SECRET", func(v string) { config.RefreshTokenSecret = v })
	overrideDuration("ACCESS_TOKEN_EXPIRY", &config.AccessTokenValidityDuration)
	overrideDuration("REFRESH_TOKEN_EXPIRY", &config.RefreshTokenValidityDuration)
	override("COOKIE_SECURE", func(v string) {
		if b, err := strconv.ParseBool(v); err == nil {
			config.CookieSecure = b
		}
	})
	override("COOKIE_SAMESITE", func(v string) { config.CookieSameSite = v })

	override("MEDIA_DRIVER", func(v string) { config.MediaDriver = v })
	override("S3_ROOT_USER", func(v string) { config.S3RootUser = v })
	override("S3_ROOT_PASSWORD", func(v string) { config.S3RootPassword = v })
	override("S3_BUCKET", func(v string) { config.S3Bucket = v })
	override("S3_REGION", func(v string) { config.S3Region = v })
	override("S3_BASE_ENDPOINT", func(v string) { config.S3BaseEndpoint = v })
	override("S3_PUBLIC_BASE_URL", func(v string) { config.S3PublicBaseURL = v })

	override("PUBLIC_DIR", func(v string) { config.PublicDir = v })
	override("UPLOAD_TEMP_DIR", func(v string) { config.UploadTempDir = v })
	overrideInt("JSON_BODY_LIMIT", &config.JSONBodyLimit)
	overrideInt("UPLOAD_BODY_LIMIT", &config.UploadBodyLimit)
	override("CORS_ORIGIN", func(v string) { config.CORSOrigin = v })

	override("REDIS_ADDR", func(v string) { config.RedisAddr = v })
	override("REDIS_PASSWORD", func(v string) { config.RedisPassword = v })
	overrideInt("REDIS_DB", &config.RedisDB)
	overrideInt("LOGIN_RATE_LIMIT", &config.LoginRateLimit)
	overrideDuration("LOGIN_RATE_WINDOW", &config.LoginRateWindow)

	override("LOG_FORMAT", func(v string) { config.LogFormat = v })
}
