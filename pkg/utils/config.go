package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Payment  PaymentConfig
	Razorpay RazorpayConfig
	Stripe   StripeConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type PaymentConfig struct {
	Currency       string
	GatewayTimeout time.Duration
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

type StripeConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("PAYMENT_CURRENCY", "INR")
	viper.SetDefault("GATEWAY_TIMEOUT_SECONDS", 15)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Payment: PaymentConfig{
			Currency:       viper.GetString("PAYMENT_CURRENCY"),
			GatewayTimeout: time.Duration(viper.GetInt("GATEWAY_TIMEOUT_SECONDS")) * time.Second,
		},
		Razorpay: RazorpayConfig{
			KeyID:     viper.GetString("RAZORPAY_KEY_ID"),
			KeySecret: viper.GetString("RAZORPAY_KEY_SECRET"),
		},
		Stripe: StripeConfig{
			SecretKey:  viper.GetString("STRIPE_SECRET_KEY"),
			SuccessURL: viper.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:  viper.GetString("STRIPE_CANCEL_URL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
	}

	return config, nil
}
