package testhelpers

import (
	"database/sql"
	"os"
	"testing"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// EnvDSN é a variável de ambiente com a string de conexão do banco de
// testes de integração.
const EnvDSN = "CATALOGPREP_TEST_DSN"

// SetupTestDB abre uma conexão com o banco de testes de integração. Sem
// a variável de ambiente o teste é pulado, nunca falha.
func SetupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	_ = godotenv.Load("../../.env")

	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		tb.Skipf("%s não definida, pulando teste de integração", EnvDSN)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		tb.Fatalf("abrir banco de testes: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		tb.Fatalf("conectar ao banco de testes: %v", err)
	}

	tb.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
