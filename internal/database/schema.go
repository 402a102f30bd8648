package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Dialect selects the few type names that differ between MySQL and the
// SQLite database used in tests.
type Dialect string

const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// schema creates every table the SQL stores need.  {{ts}} is replaced per
// dialect; everything else is shared.  Movie references to directors and
// actors carry no foreign keys: like the document store, a movie may point
// at a person that was deleted and the reference then stays unexpanded.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL DEFAULT '',
		email         VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16)  NOT NULL DEFAULT 'user',
		created_at    {{ts}}       NOT NULL,
		updated_at    {{ts}}       NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		token_hash CHAR(64) NOT NULL PRIMARY KEY,
		user_id    CHAR(36) NOT NULL,
		expires_at {{ts}}   NOT NULL,
		revoked_at {{ts}}   NULL,
		created_at {{ts}}   NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS directors (
		id          CHAR(36)      NOT NULL PRIMARY KEY,
		name        VARCHAR(255)  NOT NULL,
		nationality VARCHAR(255)  NOT NULL,
		birth_date  DATE          NOT NULL,
		bio         TEXT          NOT NULL,
		image_url   VARCHAR(1024) NOT NULL DEFAULT '',
		user_id     CHAR(36)      NOT NULL,
		created_at  {{ts}}        NOT NULL,
		updated_at  {{ts}}        NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS actors (
		id          CHAR(36)      NOT NULL PRIMARY KEY,
		name        VARCHAR(255)  NOT NULL,
		nationality VARCHAR(255)  NOT NULL,
		birth_date  DATE          NOT NULL,
		bio         TEXT          NOT NULL,
		image_url   VARCHAR(1024) NOT NULL DEFAULT '',
		user_id     CHAR(36)      NOT NULL,
		created_at  {{ts}}        NOT NULL,
		updated_at  {{ts}}        NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		id           CHAR(36)      NOT NULL PRIMARY KEY,
		title        VARCHAR(255)  NOT NULL,
		genre        VARCHAR(128)  NOT NULL,
		release_date DATE          NOT NULL,
		duration     INT           NOT NULL,
		director_id  CHAR(36)      NOT NULL,
		rating       DOUBLE        NOT NULL,
		description  TEXT          NOT NULL,
		image_url    VARCHAR(1024) NOT NULL DEFAULT '',
		country      VARCHAR(128)  NOT NULL DEFAULT '',
		teaser_url   VARCHAR(1024) NOT NULL DEFAULT '',
		user_id      CHAR(36)      NOT NULL,
		created_at   {{ts}}        NOT NULL,
		updated_at   {{ts}}        NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movie_actors (
		movie_id CHAR(36) NOT NULL,
		actor_id CHAR(36) NOT NULL,
		position INT      NOT NULL,
		PRIMARY KEY (movie_id, actor_id)
	)`,
}

// Statements returns the DDL for d.
func Statements(d Dialect) []string {
	ts := "DATETIME(3)"
	if d == SQLite {
		// go-sqlite3 only converts columns declared exactly DATETIME.
		ts = "DATETIME"
	}
	out := make([]string, len(schema))
	for i, s := range schema {
		out[i] = strings.ReplaceAll(s, "{{ts}}", ts)
	}
	return out
}

// Migrate creates missing tables.  It is idempotent.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, stmt := range Statements(d) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
