package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLOptions locates the catalog database.  Zero pool values fall back
// to the defaults below.
type MySQLOptions struct {
	User, Pass string
	Host, Port string
	Name       string

	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

const (
	defaultMaxOpenConns    = 25
	defaultConnMaxLifetime = 30 * time.Minute
)

// DSN renders the driver connection string.  Times are read into
// time.Time in UTC, matching how the stores write them.
func (o MySQLOptions) DSN() string {
	c := mysql.NewConfig()
	c.User = o.User
	c.Passwd = o.Pass
	c.Net = "tcp"
	c.Addr = o.Addr()
	c.DBName = o.Name
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// Open connects to MySQL and pings it within ctx.
func Open(ctx context.Context, o MySQLOptions) (*sql.DB, error) {
	db, err := sql.Open("mysql", o.DSN())
	if err != nil {
		return nil, err
	}

	maxOpen := o.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	lifetime := o.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = defaultConnMaxLifetime
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(lifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql %s: %w", o.Addr(), err)
	}
	return db, nil
}

// Addr is host:port, for logs and errors.
func (o MySQLOptions) Addr() string { return net.JoinHostPort(o.Host, o.Port) }
