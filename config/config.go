// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	devBypass         = pflag.Bool("dev-bypass-auth", false, "Trust X-User-Id headers instead of JWT tokens (development only)")
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validDBDrivers    = []string{"sqlite", "postgres"}
	validStorageTypes = []string{"s3", "local"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("db.driver", "db_driver")
	v.BindEnv("db.dsn", "database_url")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.expires_min", "jwt_expires_min")
	v.BindEnv("jwt.dev_bypass", "jwt_dev_bypass")

	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender_address")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("openai.api_key", "openai_api_key")
	v.BindEnv("openai.base_url", "openai_base_url")
	v.BindEnv("openai.model", "openai_model")

	v.BindEnv("tts.endpoint", "tts_endpoint")
	v.BindEnv("tts.lang", "tts_lang")
	v.BindEnv("tts.audio_dir", "tts_audio_dir")
	v.BindEnv("tts.cleanup_after_days", "tts_cleanup_after_days")

	v.BindEnv("storage.type", "storage_type")
	v.BindEnv("storage.upload_dir", "storage_upload_dir")

	v.BindEnv("aws.access_key", "aws_access_key_id")
	v.BindEnv("aws.secret_access_key", "aws_secret_access_key")
	v.BindEnv("aws.region", "aws_region")
	v.BindEnv("aws.bucket", "aws_bucket")

	v.BindEnv("rate.rps", "rate_rps")
	v.BindEnv("rate.burst", "rate_burst")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "database.db")

	v.SetDefault("jwt.expires_min", 60)
	v.SetDefault("jwt.dev_bypass", false)

	v.SetDefault("mail.port", 587)

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-4o-mini")

	v.SetDefault("tts.endpoint", "https://translate.google.com/translate_tts")
	v.SetDefault("tts.lang", "en")
	v.SetDefault("tts.audio_dir", "static/audio")
	v.SetDefault("tts.cleanup_after_days", 30)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.upload_dir", "uploads")

	v.SetDefault("rate.rps", 5)
	v.SetDefault("rate.burst", 10)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	if *devBypass {
		v.Set("jwt.dev_bypass", true)
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if !slices.Contains(validDBDrivers, v.GetString("db.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("db.dsn") == "" {
		return errors.New("database DSN can't be empty")
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if v.GetInt("jwt.expires_min") <= 0 {
		return errors.New("jwt.expires_min must be bigger than 0")
	}

	if v.GetBool("jwt.dev_bypass") {
		fmt.Println("[WARNING]: Auth bypass is enabled. Caller-supplied X-User-Id headers will be trusted. Never run like this in production")
	}

	if v.GetString("mail.host") == "" {
		return errors.New("mail host can't be empty")
	}

	if v.GetString("mail.sender") == "" {
		return errors.New("mail sender address can't be empty")
	}

	if v.GetString("openai.api_key") == "" {
		return errors.New("openai api key can't be empty")
	}

	if !slices.Contains(validStorageTypes, v.GetString("storage.type")) {
		return errors.New("invalid storage type provided")
	}

	switch v.GetString("storage.type") {
	case "s3":
		if v.GetString("aws.access_key") == "" {
			return errors.New("aws access key can't be empty")
		}
		if v.GetString("aws.secret_access_key") == "" {
			return errors.New("aws secret access key can't be empty")
		}
		if v.GetString("aws.region") == "" {
			return errors.New("aws region can't be empty")
		}
		if v.GetString("aws.bucket") == "" {
			return errors.New("aws bucket can't be empty")
		}
	case "local":
		if v.GetString("storage.upload_dir") == "" {
			return errors.New("upload directory can't be empty")
		}
	}

	if v.GetInt("rate.rps") <= 0 || v.GetInt("rate.burst") <= 0 {
		return errors.New("rate limits must be bigger than 0")
	}

	return nil
}
