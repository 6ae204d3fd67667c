package common

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	gosqlmysql "github.com/go-sql-driver/mysql"

	"github.com/Laisky/errors/v2"
)

// EnsureMySQLDSN prepares SQL_DSN for the MySQL driver. Operators may hand
// over either the native driver format or a mysql:// URL; both come out with
// parseTime enabled so created_time columns scan into time.Time, and with
// the session location pinned to UTC unless the DSN sets loc itself.
func EnsureMySQLDSN(raw string) (string, error) {
	driverDSN := raw
	if strings.HasPrefix(strings.ToLower(raw), "mysql://") {
		var err error
		if driverDSN, err = mysqlURLToDriverDSN(raw); err != nil {
			return "", err
		}
	}

	cfg, err := gosqlmysql.ParseDSN(driverDSN)
	if err != nil {
		return "", errors.Wrap(err, "parse mysql dsn")
	}
	cfg.ParseTime = true
	if !dsnSetsLocation(driverDSN) {
		cfg.Loc = time.UTC
	}
	return cfg.FormatDSN(), nil
}

func mysqlURLToDriverDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(err, "parse mysql url")
	}
	if u.Host == "" {
		return "", errors.New("mysql url has no host")
	}

	var b strings.Builder
	if u.User != nil {
		b.WriteString(u.User.Username())
		if pwd, ok := u.User.Password(); ok {
			b.WriteString(":")
			b.WriteString(pwd)
		}
		b.WriteString("@")
	}
	fmt.Fprintf(&b, "tcp(%s)/%s", u.Host, strings.TrimPrefix(u.Path, "/"))
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	return b.String(), nil
}

func dsnSetsLocation(dsn string) bool {
	_, query, found := strings.Cut(dsn, "?")
	if !found {
		return false
	}
	params, err := url.ParseQuery(query)
	if err != nil {
		return false
	}
	return params.Has("loc")
}
