package infrastructure

import (
	"testing"

	"catalogprep/database"
	"catalogprep/internal/athos/domain"
	"catalogprep/internal/testhelpers"
)

// TestLinhaRepository_Todas testa o join PA/KIT/PAI contra o banco de
// testes, incluindo o cálculo de kits montáveis com reserva descontada.
func TestLinhaRepository_Todas(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	database.DB = db

	if err := database.CreateSchema(); err != nil {
		t.Fatalf("criar esquema: %v", err)
	}
	_, err := db.Exec(`TRUNCATE produto_reserva, produto_pai_filho, kit_produtos, produtos, grupos3, grupos, fabricantes RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("limpar tabelas: %v", err)
	}
	if err := database.SeedDatabase(); err != nil {
		t.Fatalf("carregar amostra: %v", err)
	}

	linhas, err := NewLinhaRepository(db).Todas()
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(linhas) == 0 {
		t.Fatal("nenhuma linha retornada")
	}

	porPA := map[string]domain.Linha{}
	for _, l := range linhas {
		porPA[l.CodbarraProduto] = l
	}

	foraDeLinha, ok := porPA["7890000000101"]
	if !ok {
		t.Fatal("PA fora de linha não retornado")
	}
	if foraDeLinha.NomeGrupo3 != "FORA DE LINHA" || foraDeLinha.EstoqueProduto != 0 {
		t.Fatalf("PA fora de linha: %+v", foraDeLinha)
	}
	if foraDeLinha.FabricanteProduto != "HERVAL" {
		t.Fatalf("fabricante: %q", foraDeLinha.FabricanteProduto)
	}

	compartilhado, ok := porPA["7890000000201"]
	if !ok {
		t.Fatal("PA de estoque compartilhado não retornado")
	}
	if compartilhado.CodbarraKit != "7890000000203" {
		t.Fatalf("kit do PA: %q", compartilhado.CodbarraKit)
	}
	if compartilhado.CodbarraPai != "7890000000204" {
		t.Fatalf("pai do kit: %q", compartilhado.CodbarraPai)
	}
	// componente com 8 em estoque, 2 reservados e 2 por kit: 3 kits;
	// o próprio PA com 4 em estoque e 1 por kit: 4 kits; vale o menor
	if compartilhado.EstoqueKit != 3 {
		t.Fatalf("estoque do kit: %v", compartilhado.EstoqueKit)
	}

	semGrupo, ok := porPA["7890000000501"]
	if !ok {
		t.Fatal("PA sem grupo3 não retornado")
	}
	if semGrupo.NomeGrupo3 != "" {
		t.Fatalf("grupo3 inesperado: %q", semGrupo.NomeGrupo3)
	}
	if semGrupo.GrupoProduto != "SOFAS" {
		t.Fatalf("grupo do PA: %q", semGrupo.GrupoProduto)
	}
}
