package infrastructure

import (
	"context"
	"database/sql"
)

// BaseRepository estrutura de base para os repositórios SQL.
type BaseRepository struct {
	db  *sql.DB
	ctx context.Context
}

// NewBaseRepository cria um repositório de base sobre a conexão dada.
func NewBaseRepository(db *sql.DB) BaseRepository {
	return BaseRepository{
		db:  db,
		ctx: context.Background(),
	}
}

// WithContext devolve uma cópia do repositório amarrada ao contexto dado.
func (r BaseRepository) WithContext(ctx context.Context) BaseRepository {
	r.ctx = ctx
	return r
}

// Context retorna o contexto atual.
func (r *BaseRepository) Context() context.Context {
	return r.ctx
}

// Query executa uma consulta de leitura.
func (r *BaseRepository) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return r.db.QueryContext(r.ctx, query, args...)
}

// QueryRow executa uma consulta de leitura de uma única linha.
func (r *BaseRepository) QueryRow(query string, args ...interface{}) *sql.Row {
	return r.db.QueryRowContext(r.ctx, query, args...)
}

// Exec executa um comando de escrita.
func (r *BaseRepository) Exec(query string, args ...interface{}) (sql.Result, error) {
	return r.db.ExecContext(r.ctx, query, args...)
}
