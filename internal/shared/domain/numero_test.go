package domain

import (
	"fmt"
	"math"
	"testing"
)

// ========================================
// Tests: ParseNumeroLocale
// ========================================

// TestParseNumeroLocale_FormatoBrasileiro testa '1.234,56' com milhar e decimal
func TestParseNumeroLocale_FormatoBrasileiro(t *testing.T) {
	v, err := ParseNumeroLocale("1.234,56")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if v != 1234.56 {
		t.Errorf("esperado 1234.56, obtido %v", v)
	}
}

// TestParseNumeroLocale_FormatoAmericano testa '1,234.56'
func TestParseNumeroLocale_FormatoAmericano(t *testing.T) {
	v, err := ParseNumeroLocale("1,234.56")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if v != 1234.56 {
		t.Errorf("esperado 1234.56, obtido %v", v)
	}
}

// TestParseNumeroLocale_SoVirgula testa que a vírgula sozinha é decimal
func TestParseNumeroLocale_SoVirgula(t *testing.T) {
	v, err := ParseNumeroLocale("56,4")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if v != 56.4 {
		t.Errorf("esperado 56.4, obtido %v", v)
	}
}

// TestParseNumeroLocale_SoPonto testa que o ponto sozinho é decimal
func TestParseNumeroLocale_SoPonto(t *testing.T) {
	v, err := ParseNumeroLocale("56.4")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if v != 56.4 {
		t.Errorf("esperado 56.4, obtido %v", v)
	}
}

// TestParseNumeroLocale_Inteiro testa inteiro sem separador
func TestParseNumeroLocale_Inteiro(t *testing.T) {
	v, err := ParseNumeroLocale("  123 ")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if v != 123 {
		t.Errorf("esperado 123, obtido %v", v)
	}
}

// TestParseNumeroLocale_SemDigitos testa token sem dígitos
func TestParseNumeroLocale_SemDigitos(t *testing.T) {
	if _, err := ParseNumeroLocale("abc"); err == nil {
		t.Error("esperado erro para token sem dígitos")
	}
	if _, err := ParseNumeroLocale(""); err == nil {
		t.Error("esperado erro para token vazio")
	}
}

// ========================================
// Tests: Arredondar
// ========================================

// TestArredondar_ParaCima testa ceil com casas decimais
func TestArredondar_ParaCima(t *testing.T) {
	if v := Arredondar(10.231, ArredondaParaCima, 1); v != 10.3 {
		t.Errorf("esperado 10.3, obtido %v", v)
	}
	if v := Arredondar(10.0, ArredondaParaCima, 1); v != 10.0 {
		t.Errorf("esperado 10.0, obtido %v", v)
	}
}

// TestArredondar_ParaBaixo testa floor com casas decimais
func TestArredondar_ParaBaixo(t *testing.T) {
	if v := Arredondar(10.239, ArredondaParaBaixo, 1); v != 10.2 {
		t.Errorf("esperado 10.2, obtido %v", v)
	}
}

// TestArredondar_Comum testa round half para par mais próximo do Go
func TestArredondar_Comum(t *testing.T) {
	if v := Arredondar(10.24, ArredondaComum, 1); v != 10.2 {
		t.Errorf("esperado 10.2, obtido %v", v)
	}
	if v := Arredondar(10.26, ArredondaComum, 1); v != 10.3 {
		t.Errorf("esperado 10.3, obtido %v", v)
	}
}

// TestArredondar_MetodoDesconhecido testa fallback para ceil
func TestArredondar_MetodoDesconhecido(t *testing.T) {
	if v := Arredondar(10.21, MetodoArredondamento("truncate"), 1); v != 10.3 {
		t.Errorf("esperado 10.3, obtido %v", v)
	}
}

// TestArredondar_NuncaReduz verifica que ceil nunca diminui o valor
func TestArredondar_NuncaReduz(t *testing.T) {
	for _, v := range []float64{0.01, 1.111, 57.25, 99.999, 101.0} {
		r := Arredondar(v, ArredondaParaCima, 1)
		if r < v-1e-9 {
			t.Errorf("ceil reduziu %v para %v", v, r)
		}
		if math.Abs(r-v) > 0.1+1e-9 {
			t.Errorf("ceil com 1 casa alterou %v em mais de 0.1: %v", v, r)
		}
	}
}

// ========================================
// Tests: ParseIntSeguro / NormalizarEAN
// ========================================

// TestParseIntSeguro testa variantes vindas de planilha
func TestParseIntSeguro(t *testing.T) {
	if v, ok := ParseIntSeguro("3.0"); !ok || v != 3 {
		t.Errorf("'3.0': esperado (3,true), obtido (%d,%v)", v, ok)
	}
	if v, ok := ParseIntSeguro(" 15 "); !ok || v != 15 {
		t.Errorf("'15': esperado (15,true), obtido (%d,%v)", v, ok)
	}
	if _, ok := ParseIntSeguro("Imediata"); ok {
		t.Error("'Imediata' não deve ser tratada como número")
	}
	if _, ok := ParseIntSeguro(""); ok {
		t.Error("vazio não deve ser tratado como número")
	}
	if _, ok := ParseIntSeguro("abc"); ok {
		t.Error("'abc' não deve ser tratado como número")
	}
}

// TestParseIntSeguro_CelulasVaziasExportadas testa os marcadores que o
// exportador deixa em células sem valor
func TestParseIntSeguro_CelulasVaziasExportadas(t *testing.T) {
	for _, token := range []string{"nan", "NaN", "none", "None", "inf", "-inf", "Infinity"} {
		if v, ok := ParseIntSeguro(token); ok {
			t.Errorf("%q não deve ser tratado como número, obtido (%d,%v)", token, v, ok)
		}
	}
}

// TestNormalizarEAN testa limpeza de códigos de barra
func TestNormalizarEAN(t *testing.T) {
	casos := map[string]string{
		"7891234567890.0": "7891234567890",
		" 789-123 ":       "789123",
		"nan":             "",
		"None":            "",
		"":                "",
		"7891234567890":   "7891234567890",
	}
	for entrada, esperado := range casos {
		if got := NormalizarEAN(entrada); got != esperado {
			t.Errorf("NormalizarEAN(%q) = %q, esperado %q", entrada, got, esperado)
		}
	}
}

// ========================================
// Benchmarks
// ========================================

// BenchmarkParseNumeroLocale mede o parse do formato brasileiro
func BenchmarkParseNumeroLocale(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = ParseNumeroLocale("1.234,56")
	}
}

// BenchmarkNormalizarEAN mede a limpeza de EAN com sufixo .0
func BenchmarkNormalizarEAN(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = NormalizarEAN(fmt.Sprintf("78912345678%d.0", i%10))
	}
}
