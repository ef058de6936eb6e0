package sqlstring

import (
	"context"
	"database/sql"
	"fmt"
)

const table = "users"

func queries(ctx context.Context, db *sql.DB, tx *sql.Tx, name string, id int) {
	db.Query("SELECT * FROM users WHERE name = '" + name + "'")                   // want `SQL query built from non-constant strings`
	db.QueryRowContext(ctx, fmt.Sprintf("SELECT * FROM users WHERE id = %d", id)) // want `SQL query built from non-constant strings`
	tx.Exec("DELETE FROM " + table + " WHERE name = " + name)                     // want `SQL query built from non-constant strings`
	tx.Exec("DELETE FROM users WHERE id = ?", id)
	db.Query("SELECT * FROM " + table)
	db.Query(fmt.Sprintf("SELECT * FROM %s", table))
	db.PrepareContext(ctx, "SELECT name FROM users WHERE id = ?")
}
