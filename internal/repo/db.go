// Package repo implements the data access layer over the movies relation,
// backed by GORM. This file owns the connection lifecycle: every operation
// acquires its own connection via a Connector and releases it before
// returning, on success and failure paths alike. There is no pooling or
// reuse across requests.
package repo

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mcowell/go-movie-catalog/internal/secrets"
)

// tlsConfigKey is the name under which the vault-backed root CA is
// registered with the mysql driver and referenced from the DSN.
const tlsConfigKey = "azure-root-ca"

// Connector hands out request-scoped database handles.
//
// Open returns a live *gorm.DB plus a release func that must be called when
// the operation finishes (typically via defer). The release func closes the
// underlying connection; the handle must not be used after it runs.
type Connector interface {
	Open(ctx context.Context) (*gorm.DB, func(), error)
}

// MySQLConnector opens one MySQL connection per call, over TLS verified
// against the root certificate supplied at construction.
type MySQLConnector struct {
	dsn string
}

// NewMySQLConnector registers the root CA at caPath with the mysql driver
// and precomputes the DSN from the connection descriptor. The descriptor is
// treated as immutable for the process lifetime.
func NewMySQLConnector(bundle secrets.Bundle, caPath string) (*MySQLConnector, error) {
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("read root certificate %s: %w", caPath, err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("root certificate %s: no certificates parsed", caPath)
	}
	if err := mysql.RegisterTLSConfig(tlsConfigKey, &tls.Config{RootCAs: pool}); err != nil {
		return nil, fmt.Errorf("register tls config: %w", err)
	}

	return &MySQLConnector{dsn: BuildDSN(bundle, tlsConfigKey)}, nil
}

// BuildDSN assembles a go-sql-driver DSN from the connection descriptor.
// Hosts without an explicit port get the MySQL default appended.
func BuildDSN(b secrets.Bundle, tlsKey string) string {
	host := b.DBHost
	if !strings.Contains(host, ":") {
		host += ":3306"
	}
	cfg := mysql.NewConfig()
	cfg.User = b.DBUser
	cfg.Passwd = b.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = host
	cfg.DBName = b.DBName
	cfg.ParseTime = true
	cfg.TLSConfig = tlsKey
	return cfg.FormatDSN()
}

// Open dials a fresh connection. SQL statement logging is done by the repo
// functions themselves, so GORM's own logger stays silent.
func (c *MySQLConnector) Open(ctx context.Context) (*gorm.DB, func(), error) {
	db, err := gorm.Open(gormmysql.Open(c.dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		log.Error().Err(err).Msg("error connecting to the database")
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	log.Info().Msg("connected to the database")

	release := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		log.Info().Msg("disconnected from the database")
	}
	return db.WithContext(ctx), release, nil
}
