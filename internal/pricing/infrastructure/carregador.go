package infrastructure

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"catalogprep/internal/pricing/domain"
	shareddomain "catalogprep/internal/shared/domain"
)

// Planilhas no modo Fábrica trazem blocos de apresentação antes da tabela;
// o cabeçalho real fica em linhas conhecidas por aba.
var linhasCabecalhoFabrica = map[string]int{
	"Poltrona":         57,
	"Namoradeira-Sofá": 24,
	"Puff-Banqueta":    40,
	"Cadeira":          25,
}

// linhaCabecalhoPadrao é a linha (1-based) do cabeçalho nas demais abas.
const linhaCabecalhoPadrao = 2

var colunasObrigatorias = []string{"TC", "Código Fabricante", "Custo For", "Custo Fre", "Preço De"}

// ResumoCarga descreve o resultado da carga da pasta de custos.
type ResumoCarga struct {
	Abas          int
	AbasPuladas   int
	Entradas      int
	Sobrescritas  int
	LinhasPuladas int
}

// CarregarPastaCustos lê todas as abas (arquivos .csv) de uma pasta de custos
// e monta a tabela indexada por código base e linha de tecido. As abas são
// processadas em ordem de nome e a última entrada de um par vence.
func CarregarPastaCustos(dir string, modoFabrica bool) (*domain.Tabela, ResumoCarga, error) {
	caminhos, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, ResumoCarga{}, err
	}
	if len(caminhos) == 0 {
		return nil, ResumoCarga{}, fmt.Errorf("nenhuma aba .csv encontrada em %s", dir)
	}
	sort.Strings(caminhos)

	tabela := domain.NovaTabela()
	var resumo ResumoCarga

	for _, caminho := range caminhos {
		aba := strings.TrimSuffix(filepath.Base(caminho), ".csv")
		carregadas, puladas, err := carregarAba(tabela, caminho, aba, modoFabrica)
		if err != nil {
			resumo.AbasPuladas++
			continue
		}
		resumo.Abas++
		resumo.Entradas += carregadas
		resumo.LinhasPuladas += puladas
	}
	if resumo.Abas == 0 {
		return nil, resumo, fmt.Errorf("nenhuma aba válida em %s", dir)
	}

	resumo.Sobrescritas = tabela.Sobrescritas()
	resumo.Entradas = tabela.Len()
	return tabela, resumo, nil
}

func carregarAba(tabela *domain.Tabela, caminho, aba string, modoFabrica bool) (carregadas, puladas int, err error) {
	f, err := os.Open(caminho)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	leitor := csv.NewReader(f)
	leitor.FieldsPerRecord = -1
	registros, err := leitor.ReadAll()
	if err != nil {
		return 0, 0, fmt.Errorf("aba %s: %w", aba, err)
	}

	linhaCabecalho := linhaCabecalhoPadrao
	if modoFabrica {
		if l, ok := linhasCabecalhoFabrica[aba]; ok {
			linhaCabecalho = l
		}
	}
	if len(registros) < linhaCabecalho {
		return 0, 0, fmt.Errorf("aba %s: cabeçalho esperado na linha %d", aba, linhaCabecalho)
	}

	colunas, err := mapearColunas(registros[linhaCabecalho-1], aba)
	if err != nil {
		return 0, 0, err
	}

	for _, registro := range registros[linhaCabecalho:] {
		tc := domain.LinhaTecido(strings.ToUpper(celula(registro, colunas["TC"])))
		if !domain.LinhaValida(tc) {
			puladas++
			continue
		}
		codigo := celula(registro, colunas["Código Fabricante"])
		if codigo == "" {
			puladas++
			continue
		}

		custo := domain.Custo{
			CustoFornecedor: limparMoeda(celula(registro, colunas["Custo For"])),
			CustoFrete:      limparMoeda(celula(registro, colunas["Custo Fre"])),
			PrecoDe:         limparMoeda(celula(registro, colunas["Preço De"])),
			Aba:             aba,
		}
		if idx, ok := colunas["IPI"]; ok {
			custo.CustoIPI = limparMoeda(celula(registro, idx))
		}
		if idx, ok := colunas["Preço Por"]; ok {
			custo.PrecoPor = limparMoeda(celula(registro, idx))
		}

		tabela.Put(codigo, tc, custo)
		carregadas++
	}
	return carregadas, puladas, nil
}

// mapearColunas localiza as colunas pelo nome, sem depender da posição.
func mapearColunas(cabecalho []string, aba string) (map[string]int, error) {
	indice := make(map[string]int)
	for i, nome := range cabecalho {
		indice[normalizarNomeColuna(nome)] = i
	}

	colunas := make(map[string]int)
	for _, nome := range append(append([]string{}, colunasObrigatorias...), "IPI", "Preço Por") {
		if i, ok := indice[normalizarNomeColuna(nome)]; ok {
			colunas[nome] = i
		}
	}
	for _, nome := range colunasObrigatorias {
		if _, ok := colunas[nome]; !ok {
			return nil, fmt.Errorf("aba %s: coluna obrigatória %q ausente", aba, nome)
		}
	}
	return colunas, nil
}

func normalizarNomeColuna(nome string) string {
	return shareddomain.RemoverAcentos(strings.ToLower(strings.TrimSpace(nome)))
}

func celula(registro []string, idx int) string {
	if idx < 0 || idx >= len(registro) {
		return ""
	}
	return strings.TrimSpace(registro[idx])
}

// limparMoeda interpreta valores monetários como "R$ 1.234,56".
func limparMoeda(valor string) float64 {
	s := strings.ReplaceAll(valor, "R$", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := shareddomain.ParseNumeroLocale(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
