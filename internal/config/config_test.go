package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DB_PORT", "REDIS_ADDR", "AMQP_URL", "MIGRATIONS", "CACHE_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverPostgres || cfg.Database.Port != 5432 {
		t.Errorf("unexpected database defaults %+v", cfg.Database)
	}
	if cfg.Redis.Enabled() || cfg.Queue.Enabled() {
		t.Errorf("redis and queue must be disabled without addresses")
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("cache ttl = %s", cfg.Cache.TTL)
	}
	if cfg.App.Migrations {
		t.Errorf("migrations must default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("DB_PORT", "")
	t.Setenv("MIGRATIONS", "yes")
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("CACHE_TTL", "2m")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()
	if cfg.Database.Driver != DriverMySQL || cfg.Database.Port != 3306 {
		t.Errorf("unexpected mysql config %+v", cfg.Database)
	}
	if !cfg.App.Migrations {
		t.Errorf("MIGRATIONS=yes must enable migrations")
	}
	if cfg.RateLimit.Capacity != 1 {
		t.Errorf("capacity must be clamped to 1, got %d", cfg.RateLimit.Capacity)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("cache ttl = %s", cfg.Cache.TTL)
	}
	if !cfg.Redis.Enabled() {
		t.Errorf("redis must be enabled")
	}
}

func TestDSN(t *testing.T) {
	pg := DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", DBName: "hotel", SSLMode: "disable"}
	if got := pg.DSN(); got != "host=db port=5432 user=u password=p dbname=hotel sslmode=disable" {
		t.Errorf("postgres DSN = %s", got)
	}
	if got := pg.URL(); got != "postgres://u:p@db:5432/hotel?sslmode=disable" {
		t.Errorf("postgres URL = %s", got)
	}

	my := DatabaseConfig{Driver: DriverMySQL, Host: "db", Port: 3306, User: "u", Password: "p", DBName: "hotel"}
	dsn := my.DSN()
	for _, part := range []string{"u:p@tcp(db:3306)/hotel", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("mysql DSN %q missing %q", dsn, part)
		}
	}

	lite := DatabaseConfig{Driver: DriverSQLite, Path: "test.db"}
	if lite.DSN() != "test.db" {
		t.Errorf("sqlite DSN = %s", lite.DSN())
	}
}
