package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a gorm handle whose statements run on tx, so repositories can
// join a transaction opened by the service with db.BeginTx.
func BindTx(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	if tx == nil {
		return db
	}
	bound := db.Session(&gorm.Session{Context: context.Background(), SkipDefaultTransaction: true})
	bound.Statement.ConnPool = tx
	return bound
}
