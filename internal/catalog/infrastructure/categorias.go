package infrastructure

import (
	"encoding/json"
	"fmt"
	"os"

	"catalogprep/internal/catalog/domain"
)

// categoriaJSON espelha o formato aninhado do banco de categorias.
type categoriaJSON struct {
	ID       int             `json:"id"`
	Nome     string          `json:"name"`
	Status   string          `json:"status"`
	Filhos   []categoriaJSON `json:"children"`
}

// CarregarCategorias lê o banco de categorias (JSON aninhado) e o achata
// na árvore indexada usada pelo processamento da aba LOJA WEB.
func CarregarCategorias(caminho string) (*domain.ArvoreCategorias, error) {
	dados, err := os.ReadFile(caminho)
	if err != nil {
		return nil, fmt.Errorf("banco de categorias: %w", err)
	}

	var raizes []categoriaJSON
	if err := json.Unmarshal(dados, &raizes); err != nil {
		return nil, fmt.Errorf("banco de categorias %s: %w", caminho, err)
	}

	arvore := domain.NovaArvoreCategorias()
	for _, raiz := range raizes {
		achatar(arvore, raiz, true)
	}
	return arvore, nil
}

func achatar(arvore *domain.ArvoreCategorias, no categoriaJSON, raiz bool) {
	status := no.Status
	if status == "" {
		status = "Ativo"
	}

	filhos := make([]int, 0, len(no.Filhos))
	for _, filho := range no.Filhos {
		filhos = append(filhos, filho.ID)
	}

	arvore.Adicionar(domain.Categoria{
		ID:     no.ID,
		Nome:   no.Nome,
		Status: status,
		Filhos: filhos,
	}, raiz)

	for _, filho := range no.Filhos {
		achatar(arvore, filho, false)
	}
}
