package database

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLOptions_DSN(t *testing.T) {
	o := MySQLOptions{User: "catalog", Pass: "p@ss:word", Host: "db", Port: "3306", Name: "movies"}
	c, err := mysql.ParseDSN(o.DSN())
	require.NoError(t, err)
	assert.Equal(t, "catalog", c.User)
	assert.Equal(t, "p@ss:word", c.Passwd)
	assert.Equal(t, "tcp", c.Net)
	assert.Equal(t, "db:3306", c.Addr)
	assert.Equal(t, "movies", c.DBName)
	assert.True(t, c.ParseTime)
	assert.Equal(t, time.UTC, c.Loc)
	assert.Equal(t, "utf8mb4", c.Params["charset"])
}

func TestMySQLOptions_NoPassword(t *testing.T) {
	o := MySQLOptions{User: "root", Host: "localhost", Port: "3307", Name: "movies"}
	c, err := mysql.ParseDSN(o.DSN())
	require.NoError(t, err)
	assert.Equal(t, "root", c.User)
	assert.Empty(t, c.Passwd)
	assert.Equal(t, "localhost:3307", o.Addr())
}
