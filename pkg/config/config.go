// Package config loads scanner settings from an optional ini file, a .env
// file and environment overrides, in that order of increasing precedence.
package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Config carries all scan-wide settings. It is threaded explicitly into the
// orchestrator and workers; nothing reads it as ambient global state.
type Config struct {
	Concurrency     int
	QueryTimeout    time.Duration
	Domain          string // default domain suffix appended to bare hostnames
	Port            int    // 0: resolve through the browser service
	User            string // empty: integrated authentication
	Password        string
	TrustServerCert bool
	OutputCSV       string
	MySQLDSN        string // optional run warehouse
	ConsulAddr      string
	ConsulService   string
}

// Load reads path (ignored when empty or missing) and applies env overrides.
func Load(path string) (*Config, error) {
	_ = loadDotEnv()

	cfg := &Config{
		Concurrency:   8,
		QueryTimeout:  5 * time.Minute,
		OutputCSV:     "sqlfleet-report.csv",
		ConsulService: "mssql",
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			file, err := ini.Load(path)
			if err != nil {
				return nil, err
			}
			scan := file.Section("scan")
			cfg.Concurrency = scan.Key("concurrency").MustInt(cfg.Concurrency)
			cfg.QueryTimeout = scan.Key("query_timeout").MustDuration(cfg.QueryTimeout)
			cfg.Domain = scan.Key("domain").String()
			cfg.Port = scan.Key("port").MustInt(0)
			cfg.TrustServerCert = scan.Key("trust_server_cert").MustBool(false)

			auth := file.Section("auth")
			cfg.User = auth.Key("user").String()
			cfg.Password = auth.Key("password").String()

			output := file.Section("output")
			cfg.OutputCSV = output.Key("csv").MustString(cfg.OutputCSV)
			cfg.MySQLDSN = output.Key("mysql_dsn").String()

			consul := file.Section("consul")
			cfg.ConsulAddr = consul.Key("addr").String()
			cfg.ConsulService = consul.Key("service").MustString(cfg.ConsulService)
		}
	}

	if v := os.Getenv("SQLFLEET_USER"); v != "" {
		cfg.User = v
	}
	if v := os.Getenv("SQLFLEET_PASSWORD"); v != "" {
		cfg.Password = v
	}
	if v := os.Getenv("SQLFLEET_DOMAIN"); v != "" {
		cfg.Domain = v
	}
	if v := os.Getenv("MYSQL_DSN"); v != "" {
		cfg.MySQLDSN = v
	}
	if v := os.Getenv("CONSUL_HTTP_ADDR"); v != "" {
		cfg.ConsulAddr = v
	}

	log.Printf("[CONFIG] concurrency=%d timeout=%s domain=%q user=%s pass=%s",
		cfg.Concurrency, cfg.QueryTimeout, cfg.Domain, cfg.User, maskPassword(cfg.Password))
	return cfg, nil
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func maskPassword(pass string) string {
	if pass == "" {
		return "(none)"
	}
	if len(pass) <= 4 {
		return "***"
	}
	return pass[:2] + "***" + pass[len(pass)-2:]
}
