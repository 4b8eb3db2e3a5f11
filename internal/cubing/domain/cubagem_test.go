package domain

import (
	"math"
	"strings"
	"testing"

	shareddomain "catalogprep/internal/shared/domain"
)

const descricaoDuasCaixas = `<p>Sofá retrátil em tecido suede.</p>
<p>Medidas das Embalagens:</p>
<p>Caixa 1: 60 cm x 90 cm x 190 cm</p>
<p>Caixa 2: 40 cm x 80 cm x 190 cm</p>
<p>Peso total aproximado: 96,5 kg</p>
<p>Quantidade de Volumes: 2 Caixas</p>`

// ========================================
// Tests: extração
// ========================================

// TestLimparMarcacao testa remoção de tags e entidades HTML
func TestLimparMarcacao(t *testing.T) {
	texto := LimparMarcacao("<p>Sof&aacute;   retr&aacute;til</p>\n<br/>2 lugares")
	if texto != "Sofá retrátil 2 lugares" {
		t.Errorf("texto inesperado: %q", texto)
	}
	if LimparMarcacao("") != "" {
		t.Error("descrição vazia deveria resultar em vazio")
	}
}

// TestExtrairCaixas testa o padrão "Caixa N: A x L x P" e suas variantes
func TestExtrairCaixas(t *testing.T) {
	caixas := ExtrairCaixas(LimparMarcacao(descricaoDuasCaixas))
	if len(caixas) != 2 {
		t.Fatalf("esperado 2 caixas, obtido %d", len(caixas))
	}
	if caixas[0].AlturaCm != 60 || caixas[0].LarguraCm != 90 || caixas[0].ProfundidadeCm != 190 {
		t.Errorf("caixa 1 inesperada: %+v", caixas[0])
	}
}

// TestExtrairCaixas_Variantes testa hífen, símbolo × e decimais com vírgula
func TestExtrairCaixas_Variantes(t *testing.T) {
	casos := []string{
		"caixa 1 - 12,5 x 30 x 45,5",
		"CAIXA 1: 12,5 cm × 30 cm × 45,5 cm",
		"Caixa 1 12,5x30x45,5",
	}
	for _, texto := range casos {
		caixas := ExtrairCaixas(texto)
		if len(caixas) != 1 {
			t.Errorf("%q: esperado 1 caixa, obtido %d", texto, len(caixas))
			continue
		}
		if caixas[0].AlturaCm != 12.5 || caixas[0].LarguraCm != 30 || caixas[0].ProfundidadeCm != 45.5 {
			t.Errorf("%q: caixa inesperada %+v", texto, caixas[0])
		}
	}
}

// TestExtrairCaixas_OrdemPreservada garante que as dimensões nunca são reordenadas
func TestExtrairCaixas_OrdemPreservada(t *testing.T) {
	caixas := ExtrairCaixas("Caixa 1: 190 x 20 x 80")
	if len(caixas) != 1 {
		t.Fatal("esperado 1 caixa")
	}
	if caixas[0].AlturaCm != 190 || caixas[0].LarguraCm != 20 || caixas[0].ProfundidadeCm != 80 {
		t.Errorf("ordem de escrita não preservada: %+v", caixas[0])
	}
}

// TestExtrairPesoTotal testa a prioridade da seção de embalagens
func TestExtrairPesoTotal(t *testing.T) {
	texto := "Produto com estrutura de 120 kg de capacidade. Medidas das Embalagens: Caixa 1: 10 x 10 x 10 Peso total: 42,3 kg"
	peso, ok := ExtrairPesoTotal(texto)
	if !ok {
		t.Fatal("peso deveria ter sido encontrado")
	}
	if peso != 42.3 {
		t.Errorf("esperado 42.3, obtido %v", peso)
	}
}

// TestExtrairPesoTotal_ForaDaSecao testa o fallback para o texto inteiro
func TestExtrairPesoTotal_ForaDaSecao(t *testing.T) {
	peso, ok := ExtrairPesoTotal("Peso: 18 kg")
	if !ok || peso != 18 {
		t.Errorf("esperado (18,true), obtido (%v,%v)", peso, ok)
	}
	if _, ok := ExtrairPesoTotal("sem informação de massa"); ok {
		t.Error("não deveria encontrar peso")
	}
}

// TestExtrairQtdeVolumes_ConflitoContagemPrevalece testa declarado vs contado
func TestExtrairQtdeVolumes_ConflitoContagemPrevalece(t *testing.T) {
	texto := "Quantidade de Volumes: 3 Caixas Caixa 1: 10 x 10 x 10 Caixa 2: 20 x 20 x 20"
	qtde, ok, aviso := ExtrairQtdeVolumes(texto)
	if !ok || qtde != 2 {
		t.Errorf("esperado (2,true), obtido (%d,%v)", qtde, ok)
	}
	if aviso == "" {
		t.Error("conflito deveria gerar aviso")
	}
}

// TestExtrairQtdeVolumes_SoDeclarado testa declaração sem caixas rotuladas
func TestExtrairQtdeVolumes_SoDeclarado(t *testing.T) {
	qtde, ok, aviso := ExtrairQtdeVolumes("Qtde Volumes: 4 Caixas")
	if !ok || qtde != 4 || aviso != "" {
		t.Errorf("esperado (4,true,''), obtido (%d,%v,%q)", qtde, ok, aviso)
	}
	if _, ok, _ := ExtrairQtdeVolumes("sem volumes declarados"); ok {
		t.Error("não deveria detectar quantidade")
	}
}

// ========================================
// Tests: consolidação
// ========================================

// TestConsolidar_DuasCaixas testa o cenário clássico de sofá em dois volumes
func TestConsolidar_DuasCaixas(t *testing.T) {
	caixas := []Caixa{
		{AlturaCm: 60, LarguraCm: 90, ProfundidadeCm: 190},
		{AlturaCm: 40, LarguraCm: 80, ProfundidadeCm: 190},
	}
	altura, largura, comprimento, volEmb, volTotal, err := Consolidar(caixas, OpcoesPadrao())
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	// 60*90*190 + 40*80*190 = 1_634_000 cm3
	if math.Abs(volTotal-1.634) > 1e-9 {
		t.Errorf("volume total esperado 1.634 m3, obtido %v", volTotal)
	}

	lado := math.Sqrt(1634000.0 / 101.0)
	esperado := math.Ceil((lado+3)*10) / 10
	if altura != esperado || largura != esperado {
		t.Errorf("lado esperado %v, obtido altura=%v largura=%v", esperado, altura, largura)
	}
	if comprimento != 101 {
		t.Errorf("comprimento fixo esperado 101, obtido %v", comprimento)
	}

	recalculado := altura * largura * comprimento / 1e6
	if math.Abs(volEmb-recalculado) > 1e-12 {
		t.Errorf("volume da embalagem deve sair das dimensões arredondadas: %v != %v", volEmb, recalculado)
	}
	if volEmb < volTotal {
		t.Errorf("embalagem consolidada (%v) não pode ser menor que a soma das caixas (%v)", volEmb, volTotal)
	}
}

// TestConsolidar_FolgaNoComprimento testa a folga opcional no eixo fixo
func TestConsolidar_FolgaNoComprimento(t *testing.T) {
	op := Opcoes{FolgaCm: 3, FolgaNoComprimento: true}
	_, _, comprimento, _, _, err := Consolidar([]Caixa{{10, 10, 10}}, op)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if comprimento != 104 {
		t.Errorf("esperado 104, obtido %v", comprimento)
	}
}

// TestConsolidar_ComprimentoInvalido testa a validação do comprimento fixo
func TestConsolidar_ComprimentoInvalido(t *testing.T) {
	_, _, _, _, _, err := Consolidar(nil, Opcoes{ComprimentoFixoCm: -5})
	if err != ErrComprimentoFixoInvalido {
		t.Errorf("esperado ErrComprimentoFixoInvalido, obtido %v", err)
	}
}

// TestPesoCubado testa o fator de cubagem e sua validação
func TestPesoCubado(t *testing.T) {
	v, err := PesoCubado(0.5, 300)
	if err != nil || v != 150 {
		t.Errorf("esperado 150, obtido (%v,%v)", v, err)
	}
	if _, err := PesoCubado(0.5, 0); err != ErrFatorCubagemInvalido {
		t.Errorf("esperado ErrFatorCubagemInvalido, obtido %v", err)
	}
}

// ========================================
// Tests: derivação completa
// ========================================

// TestDerivarEmbalagem_MultiplasCaixas testa o fluxo consolidado de ponta a ponta
func TestDerivarEmbalagem_MultiplasCaixas(t *testing.T) {
	r, err := DerivarEmbalagem(descricaoDuasCaixas, Opcoes{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if r.CaixasEncontradas != 2 {
		t.Errorf("esperado 2 caixas, obtido %d", r.CaixasEncontradas)
	}
	if r.QtdeVolume != 2 {
		t.Errorf("esperado 2 volumes, obtido %d", r.QtdeVolume)
	}
	if r.PesoBrutoKg != 96.5 {
		t.Errorf("peso bruto esperado 96.5, obtido %v", r.PesoBrutoKg)
	}
	if r.ComprimentoCm != 101 {
		t.Errorf("comprimento esperado 101, obtido %v", r.ComprimentoCm)
	}

	esperadoCubado := r.VolumeEmbalagemM3 * 300
	if math.Abs(r.PesoCubadoKg-esperadoCubado) > 1e-9 {
		t.Errorf("peso cubado esperado %v, obtido %v", esperadoCubado, r.PesoCubadoKg)
	}
	if r.PesoTaxavelKg != math.Max(r.PesoBrutoKg, r.PesoCubadoKg) {
		t.Errorf("peso taxável deve ser o maior entre bruto e cubado")
	}
}

// TestDerivarEmbalagem_VolumeUnico testa o repasse direto sem arredondamento
func TestDerivarEmbalagem_VolumeUnico(t *testing.T) {
	desc := "Caixa 1: 57,3 x 62,1 x 110 Peso: 14,2 kg"
	r, err := DerivarEmbalagem(desc, Opcoes{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if r.AlturaCm != 57.3 || r.LarguraCm != 62.1 || r.ComprimentoCm != 110 {
		t.Errorf("dimensões deveriam passar sem consolidação: %+v", r)
	}
	if r.PesoBrutoKg != 14.2 {
		t.Errorf("peso bruto esperado 14.2, obtido %v", r.PesoBrutoKg)
	}
}

// TestDerivarEmbalagem_SemCaixas testa descrição sem medidas
func TestDerivarEmbalagem_SemCaixas(t *testing.T) {
	r, err := DerivarEmbalagem("<p>Peso: 22 kg</p><p>Qtde Volumes: 1 Caixa</p>", Opcoes{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if r.AlturaCm != 0 || r.LarguraCm != 0 || r.ComprimentoCm != 0 {
		t.Errorf("dimensões deveriam ficar zeradas: %+v", r)
	}
	if r.PesoBrutoKg != 22 || r.QtdeVolume != 1 {
		t.Errorf("peso/quantidade preservados incorretamente: %+v", r)
	}
	if r.PesoTaxavelKg != 22 {
		t.Errorf("peso taxável esperado 22, obtido %v", r.PesoTaxavelKg)
	}
}

// TestDerivarEmbalagem_DescricaoVazia testa o resultado neutro
func TestDerivarEmbalagem_DescricaoVazia(t *testing.T) {
	r, err := DerivarEmbalagem("", Opcoes{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if r.CaixasEncontradas != 0 || r.PesoTaxavelKg != 0 {
		t.Errorf("resultado deveria ser neutro: %+v", r)
	}
}

// TestDerivarEmbalagem_ArredondamentoConfiguravel testa floor com duas casas
func TestDerivarEmbalagem_ArredondamentoConfiguravel(t *testing.T) {
	desc := "Caixa 1: 10 x 10 x 10 Caixa 2: 10 x 10 x 10"
	r, err := DerivarEmbalagem(desc, Opcoes{Metodo: shareddomain.ArredondaParaBaixo, CasasDecimais: 2, FolgaCm: 3})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	lado := math.Sqrt(2000.0/101.0) + 3
	esperado := math.Floor(lado*100) / 100
	if r.AlturaCm != esperado {
		t.Errorf("esperado %v, obtido %v", esperado, r.AlturaCm)
	}
}

// ========================================
// Benchmarks
// ========================================

// BenchmarkDerivarEmbalagem mede a derivação completa de uma descrição real
func BenchmarkDerivarEmbalagem(b *testing.B) {
	desc := strings.Repeat("<p>texto de apresentação do produto</p>", 10) + descricaoDuasCaixas
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = DerivarEmbalagem(desc, Opcoes{})
	}
}
