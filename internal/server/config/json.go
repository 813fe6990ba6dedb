package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ndenisov/imgvault/internal/flagx"
)

// Duration wraps time.Duration so JSON config files can use either string
// values such as "1h" or integer nanoseconds.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return &json.UnsupportedTypeError{}
	}
}

// jsonConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config.
// Zero values mean "not set" and leave the existing Config value alone.
type jsonConfig struct {
	EndpointAddr          string   `json:"endpoint_addr"`
	DatabaseDSN           string   `json:"database_dsn"`
	SecretKey             string   `json:"secret_key"`
	TokenValidityDuration Duration `json:"token_validity_duration"`
	LogFormat             string   `json:"log_format"`
	RateLimitRPS          int      `json:"rate_limit_rps"`
	RateLimitBurst        int      `json:"rate_limit_burst"`
	CacheBackend          string   `json:"cache_backend"`
	RedisAddr             string   `json:"redis_addr"`
	RedisPassword         string   `json:"redis_password"`
	RedisDB               int      `json:"redis_db"`
	StorageBackend        string   `json:"storage_backend"`
	ImgurUploadURL        string   `json:"imgur_upload_url"`
	ImgurDeleteURL        string   `json:"imgur_delete_url"`
	ImgurClientID         string   `json:"imgur_client_id"`
	GatewayTimeout        Duration `json:"gateway_timeout"`
	S3AccessKey           string   `json:"s3_access_key"`
	S3SecretKey           string   `json:"s3_secret_key"`
	S3Bucket              string   `json:"s3_bucket"`
	S3Region              string   `json:"s3_region"`
	S3Endpoint            string   `json:"s3_endpoint"`
	S3PublicURL           string   `json:"s3_public_url"`
}

// parseJSON loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config flags; if
// neither is set, no JSON file is loaded. An unreadable or invalid file
// panics, matching the flag layer.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	applyString(&config.EndpointAddr, c.EndpointAddr)
	applyString(&config.DatabaseDSN, c.DatabaseDSN)
	applyString(&config.SecretKey, c.SecretKey)
	applyDuration(&config.TokenValidityDuration, c.TokenValidityDuration)
	applyString(&config.LogFormat, c.LogFormat)
	applyInt(&config.RateLimitRPS, c.RateLimitRPS)
	applyInt(&config.RateLimitBurst, c.RateLimitBurst)
	applyString(&config.CacheBackend, c.CacheBackend)
	applyString(&config.RedisAddr, c.RedisAddr)
	applyString(&config.RedisPassword, c.RedisPassword)
	applyInt(&config.RedisDB, c.RedisDB)
	applyString(&config.StorageBackend, c.StorageBackend)
	applyString(&config.ImgurUploadURL, c.ImgurUploadURL)
	applyString(&config.ImgurDeleteURL, c.ImgurDeleteURL)
	applyString(&config.ImgurClientID, c.ImgurClientID)
	applyDuration(&config.GatewayTimeout, c.GatewayTimeout)
	applyString(&config.S3AccessKey, c.S3AccessKey)
	applyString(&config.S3SecretKey, c.S3SecretKey)
	applyString(&config.S3Bucket, c.S3Bucket)
	applyString(&config.S3Region, c.S3Region)
	applyString(&config.S3Endpoint, c.S3Endpoint)
	applyString(&config.S3PublicURL, c.S3PublicURL)
}

func applyString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func applyInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func applyDuration(dst *time.Duration, v Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
