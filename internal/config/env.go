package config

import (
	"os"
	"strconv"
	"strings"
)

type Env struct {
	AppAddr         string
	GinMode         string
	DBDSN           string
	JWTSecret       string
	OverpayLimitPct float64
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/washbay?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	overpay := 150.0
	if raw := strings.TrimSpace(os.Getenv("OVERPAY_LIMIT_PCT")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			overpay = v
		}
	}

	return Env{
		AppAddr:         appAddr,
		GinMode:         strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:           dsn,
		JWTSecret:       secret,
		OverpayLimitPct: overpay,
	}
}
