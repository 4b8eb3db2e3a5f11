package domain

import "testing"

// TestNormalizarTexto testa a capitalização por palavra
func TestNormalizarTexto(t *testing.T) {
	if got := NormalizarTexto("cinza claro"); got != "Cinza Claro" {
		t.Errorf("esperado 'Cinza Claro', obtido %q", got)
	}
	if got := NormalizarTexto("  OFF WHITE "); got != "Off White" {
		t.Errorf("esperado 'Off White', obtido %q", got)
	}
	if got := NormalizarTexto(""); got != "" {
		t.Errorf("esperado vazio, obtido %q", got)
	}
}

// TestRemoverAcentos testa a remoção de diacríticos
func TestRemoverAcentos(t *testing.T) {
	if got := RemoverAcentos("variação"); got != "variacao" {
		t.Errorf("esperado 'variacao', obtido %q", got)
	}
	if got := RemoverAcentos("Fábrica"); got != "Fabrica" {
		t.Errorf("esperado 'Fabrica', obtido %q", got)
	}
}

// TestNormalizarTipoProduto testa a forma canônica dos tipos de anúncio
func TestNormalizarTipoProduto(t *testing.T) {
	casos := map[string]string{
		" Variação ": "variacao",
		"PAI":        "pai",
		"Unitário":   "unitario",
		"":           "",
	}
	for entrada, esperado := range casos {
		if got := NormalizarTipoProduto(entrada); got != esperado {
			t.Errorf("NormalizarTipoProduto(%q) = %q, esperado %q", entrada, got, esperado)
		}
	}
}

// TestNormalizarChave testa a chave de agrupamento
func TestNormalizarChave(t *testing.T) {
	if got := NormalizarChave(" dmov "); got != "DMOV" {
		t.Errorf("esperado 'DMOV', obtido %q", got)
	}
}
