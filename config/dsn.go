package config

import (
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

// MySQLDSN returns the go-sql-driver/mysql DSN for cfg.
func MySQLDSN(cfg Config) string {
	m := mysql.NewConfig()
	m.User = cfg.User
	m.Passwd = cfg.Password
	m.Net = "tcp"
	m.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	m.DBName = cfg.Name

	return m.FormatDSN()
}

// PostgresDSN returns the postgres:// URL for cfg, accepted by both lib/pq and pgx.
// An empty SSLMode is emitted as DefaultSSLMode.
func PostgresDSN(cfg Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = DefaultSSLMode
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}

	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}

	return u.String()
}
