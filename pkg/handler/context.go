package handler

// DI for all handlers and models alike.

import (
	"database/sql"

	depotdb "github.com/nadepot/nadepot/pkg/db"
)

type DepotContext struct {
	DB    *sql.DB
	Depot *depotdb.DepotDB
}
