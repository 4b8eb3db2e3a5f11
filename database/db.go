package database

import (
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// DB é a conexão compartilhada com o banco do ERP.
var DB *sql.DB

// Init abre a conexão com o banco e configura o pool.
func Init(connStr string) error {
	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return err
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(5)
	DB.SetConnMaxLifetime(5 * time.Minute)

	return DB.Ping()
}

// Close encerra a conexão, se aberta.
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
