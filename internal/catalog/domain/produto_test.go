package domain

import "testing"

// ========================================
// Tests: PaiVazio
// ========================================

// TestPaiVazio_Detectado testa o pai usado apenas para amarrar variações
func TestPaiVazio_Detectado(t *testing.T) {
	p := ProdutoOrigem{
		EAN:                "7891000000001",
		TipoProduto:        "Pai",
		ComplementoProduto: "Sofá Madri 3 Lugares",
	}
	if !p.PaiVazio() {
		t.Error("pai só com EAN e complemento deveria ser vazio")
	}

	// tolerância de um campo extra
	p.Cor = "Cinza"
	if !p.PaiVazio() {
		t.Error("um campo extra ainda conta como pai vazio")
	}

	p.Anuncio = "Sofá Madri Retrátil"
	if p.PaiVazio() {
		t.Error("dois campos extras tornam o pai completo")
	}
}

// TestPaiVazio_NaoSeAplica testa os tipos e campos obrigatórios
func TestPaiVazio_NaoSeAplica(t *testing.T) {
	p := ProdutoOrigem{EAN: "1", TipoProduto: "variação", ComplementoProduto: "x"}
	if p.PaiVazio() {
		t.Error("variação nunca é pai vazio")
	}
	p = ProdutoOrigem{EAN: "1", TipoProduto: "pai"}
	if p.PaiVazio() {
		t.Error("pai sem complemento não é pai vazio")
	}
	p = ProdutoOrigem{TipoProduto: "pai", ComplementoProduto: "x"}
	if p.PaiVazio() {
		t.Error("pai sem EAN não é pai vazio")
	}
}

// TestPaiVazio_IgnoraMarcadoresNulos testa 'nan'/'none' vindos de planilha
func TestPaiVazio_IgnoraMarcadoresNulos(t *testing.T) {
	p := ProdutoOrigem{
		EAN:                "7891000000001",
		TipoProduto:        "pai",
		ComplementoProduto: "Poltrona Opala",
		Cor:                "nan",
		Cat:                "None",
	}
	if !p.PaiVazio() {
		t.Error("marcadores nulos não deveriam contar como campos extras")
	}
}

// TestSeparador testa a detecção de linha em branco
func TestSeparador(t *testing.T) {
	if !(ProdutoOrigem{EAN: "  "}).Separador() {
		t.Error("EAN em branco deveria ser separador")
	}
	if (ProdutoOrigem{EAN: "789"}).Separador() {
		t.Error("EAN preenchido não é separador")
	}
}

// TestLimparAnuncio testa a remoção do sufixo de marca
func TestLimparAnuncio(t *testing.T) {
	if got := LimparAnuncio("Sofá Madri - D'Rossi"); got != "Sofá Madri" {
		t.Errorf("esperado 'Sofá Madri', obtido %q", got)
	}
	if got := LimparAnuncio(""); got != "" {
		t.Errorf("esperado vazio, obtido %q", got)
	}
}

// TestNovoProdutoDestino testa os valores fixos do cadastro
func TestNovoProdutoDestino(t *testing.T) {
	p := NovoProdutoDestino()
	if p.NCM != "94016100" || p.SiteMarca != "D Rossi" || p.SiteGarantia == "" {
		t.Errorf("padrões do cadastro incorretos: %+v", p)
	}
	if p.InicioPromocao != "01/01/2025" || p.FimPromocao != "31/12/2040" {
		t.Errorf("janela de promoção incorreta: %+v", p)
	}
}
