package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"catalogprep/internal/catalog/domain"
	shareddomain "catalogprep/internal/shared/domain"
	"catalogprep/internal/shared/infrastructure"
)

// RepositorioFornecedores acessa o banco SQLite de fornecedores com um
// cache em memória para as buscas por nome.
type RepositorioFornecedores struct {
	db    *sql.DB
	cache infrastructure.Cache
}

const migracaoFornecedores = `
CREATE TABLE IF NOT EXISTS suppliers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	code INTEGER NOT NULL,
	prazo_dias INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_suppliers_name ON suppliers(name);
`

// AbrirRepositorioFornecedores abre (ou cria) o banco no caminho dado.
func AbrirRepositorioFornecedores(caminho string) (*RepositorioFornecedores, error) {
	db, err := sql.Open("sqlite", caminho)
	if err != nil {
		return nil, fmt.Errorf("banco de fornecedores: %w", err)
	}
	if _, err := db.Exec(migracaoFornecedores); err != nil {
		db.Close()
		return nil, fmt.Errorf("migração do banco de fornecedores: %w", err)
	}
	return &RepositorioFornecedores{
		db:    db,
		cache: infrastructure.NewInMemoryCache(),
	}, nil
}

// Close fecha a conexão com o banco.
func (r *RepositorioFornecedores) Close() error {
	return r.db.Close()
}

// Adicionar insere um fornecedor.
func (r *RepositorioFornecedores) Adicionar(ctx context.Context, nome string, codigo int64, prazoDias int) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO suppliers (name, code, prazo_dias) VALUES (?, ?, ?)",
		strings.TrimSpace(nome), codigo, prazoDias)
	return err
}

// Todos devolve os fornecedores ordenados por nome.
func (r *RepositorioFornecedores) Todos(ctx context.Context) ([]domain.Fornecedor, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, code, prazo_dias FROM suppliers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fornecedores []domain.Fornecedor
	for rows.Next() {
		var f domain.Fornecedor
		if err := rows.Scan(&f.ID, &f.Nome, &f.Codigo, &f.PrazoDias); err != nil {
			return nil, err
		}
		fornecedores = append(fornecedores, f)
	}
	return fornecedores, rows.Err()
}

// BuscarPorNome procura o fornecedor pelo nome: primeiro por igualdade
// normalizada, depois por similaridade com limiar.
func (r *RepositorioFornecedores) BuscarPorNome(ctx context.Context, nome string) (domain.Fornecedor, bool, error) {
	chave := "fornecedor:" + normalizarNomeFornecedor(nome)
	if v, ok := r.cache.Get(chave); ok {
		f, encontrado := v.(domain.Fornecedor)
		return f, encontrado, nil
	}

	fornecedores, err := r.Todos(ctx)
	if err != nil {
		return domain.Fornecedor{}, false, err
	}

	f, ok := melhorFornecedor(nome, fornecedores)
	if ok {
		r.cache.Set(chave, f, 10*time.Minute)
	}
	return f, ok, nil
}

// melhorFornecedor aplica a busca exata e depois a por similaridade.
func melhorFornecedor(nome string, fornecedores []domain.Fornecedor) (domain.Fornecedor, bool) {
	alvo := normalizarNomeFornecedor(nome)
	if alvo == "" {
		return domain.Fornecedor{}, false
	}

	for _, f := range fornecedores {
		if normalizarNomeFornecedor(f.Nome) == alvo {
			return f, true
		}
	}

	var melhor domain.Fornecedor
	melhorPontuacao := 0.0

	for _, f := range fornecedores {
		candidato := normalizarNomeFornecedor(f.Nome)
		pontuacao := 0.0

		if strings.Contains(candidato, alvo) || strings.Contains(alvo, candidato) {
			pontuacao = 0.9
		} else if strings.HasPrefix(candidato, alvo) || strings.HasPrefix(alvo, candidato) {
			pontuacao = 0.85
		}
		if s := similaridadePalavras(alvo, candidato); s > pontuacao {
			pontuacao = s
		}

		if pontuacao > melhorPontuacao {
			melhorPontuacao = pontuacao
			melhor = f
		}
	}

	// Limiar reduzido para as variações internas da marca própria.
	limiar := 0.8
	for _, termo := range []string{"dmov", "drossi", "rossi"} {
		if strings.Contains(alvo, termo) {
			limiar = 0.6
			break
		}
	}

	if melhorPontuacao >= limiar {
		return melhor, true
	}
	return domain.Fornecedor{}, false
}

// similaridadePalavras calcula o índice de Jaccard sobre as palavras.
func similaridadePalavras(a, b string) float64 {
	palavrasA := strings.Fields(a)
	palavrasB := strings.Fields(b)
	if len(palavrasA) == 0 || len(palavrasB) == 0 {
		return 0
	}

	conjuntoA := make(map[string]struct{}, len(palavrasA))
	for _, p := range palavrasA {
		conjuntoA[p] = struct{}{}
	}
	conjuntoB := make(map[string]struct{}, len(palavrasB))
	for _, p := range palavrasB {
		conjuntoB[p] = struct{}{}
	}

	intersecao := 0
	for p := range conjuntoA {
		if _, ok := conjuntoB[p]; ok {
			intersecao++
		}
	}
	uniao := len(conjuntoA) + len(conjuntoB) - intersecao
	if uniao == 0 {
		return 0
	}
	return float64(intersecao) / float64(uniao)
}

func normalizarNomeFornecedor(nome string) string {
	return shareddomain.RemoverAcentos(strings.ToLower(strings.TrimSpace(nome)))
}
