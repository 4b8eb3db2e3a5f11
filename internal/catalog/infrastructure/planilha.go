package infrastructure

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"catalogprep/internal/catalog/domain"
	shareddomain "catalogprep/internal/shared/domain"
)

// aliasesColunas mapeia os nomes de coluna aceitos na planilha de origem para
// o campo canônico. Os nomes são comparados sem acentos e em minúsculas, pois
// os fornecedores variam a grafia entre envios.
var aliasesColunas = map[string][]string{
	"ean":                 {"ean e variação", "ean"},
	"ean_variacao":        {"ean variação"},
	"cod_fornecedor":      {"cód. fornecedor", "cod. fornecedor", "cód. fabricante", "cod. fabricante"},
	"complemento_titulo":  {"complemento/título interno"},
	"categoria":           {"categoria"},
	"cat":                 {"cat.", "cat"},
	"grupo":               {"grupo"},
	"titulo_compra":       {"título para compra"},
	"anuncio":             {"anúncio"},
	"tipo_produto":        {"tipo de produto", "tipo do produto"},
	"tipo_anuncio":        {"tipo de anúncio"},
	"cor":                 {"cor do produto", "cor do tecido", "cor"},
	"volumes":             {"volumes"},
	"qtde_volume":         {"qtde volume"},
	"peso_bruto":          {"peso bruto"},
	"largura":             {"largura", "emb.largura"},
	"altura":              {"altura", "emb.altura"},
	"comprimento":         {"comprimento", "emb.comprimento"},
	"prazo":               {"prazo"},
	"descricao_html":      {"descrição html"},
	"ncm":                 {"ncm"},
	"complemento_produto": {"complemento do produto (sem o cod e marca)", "complemento do produto"},
}

// LerPlanilhaOrigem lê a planilha de origem (CSV com cabeçalho na primeira
// linha) e devolve os produtos na ordem do arquivo. Linhas com EAN em branco
// são preservadas: elas separam os grupos de produtos.
func LerPlanilhaOrigem(caminho string) ([]domain.ProdutoOrigem, error) {
	f, err := os.Open(caminho)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	leitor := csv.NewReader(f)
	leitor.FieldsPerRecord = -1
	registros, err := leitor.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("planilha %s: %w", caminho, err)
	}
	if len(registros) < 1 {
		return nil, fmt.Errorf("planilha %s: vazia", caminho)
	}

	colunas := mapearColunasOrigem(registros[0])
	if _, ok := colunas["ean"]; !ok {
		return nil, fmt.Errorf("planilha %s: coluna de EAN ausente", caminho)
	}

	produtos := make([]domain.ProdutoOrigem, 0, len(registros)-1)
	for _, registro := range registros[1:] {
		campo := func(nome string) string {
			idx, ok := colunas[nome]
			if !ok {
				return ""
			}
			return limparCampo(celula(registro, idx))
		}

		p := domain.ProdutoOrigem{
			EAN:                shareddomain.NormalizarEAN(campo("ean")),
			EANVariacao:        shareddomain.NormalizarEAN(campo("ean_variacao")),
			CodFornecedor:      campo("cod_fornecedor"),
			ComplementoTitulo:  campo("complemento_titulo"),
			Anuncio:            campo("anuncio"),
			TituloCompra:       campo("titulo_compra"),
			Cat:                campo("cat"),
			Grupo:              campo("grupo"),
			Cor:                campo("cor"),
			TipoAnuncio:        campo("tipo_anuncio"),
			TipoProduto:        campo("tipo_produto"),
			Categoria:          campo("categoria"),
			DescricaoHTML:      campo("descricao_html"),
			NCM:                campo("ncm"),
			ComplementoProduto: campo("complemento_produto"),
			PesoBruto:          numero(campo("peso_bruto")),
			Largura:            numero(campo("largura")),
			Altura:             numero(campo("altura")),
			Comprimento:        numero(campo("comprimento")),
		}
		if v, ok := shareddomain.ParseIntSeguro(campo("volumes")); ok {
			p.Volumes = v
		}
		if v, ok := shareddomain.ParseIntSeguro(campo("qtde_volume")); ok {
			p.QtdeVolume = v
		}
		if v, ok := shareddomain.ParseIntSeguro(campo("prazo")); ok {
			p.Prazo = v
		}

		produtos = append(produtos, p)
	}
	return produtos, nil
}

// mapearColunasOrigem casa o cabeçalho com os campos canônicos. O primeiro
// alias encontrado vence; colunas desconhecidas são ignoradas.
func mapearColunasOrigem(cabecalho []string) map[string]int {
	indice := make(map[string]int)
	for i, nome := range cabecalho {
		chave := normalizarNomeColuna(nome)
		if _, ok := indice[chave]; !ok {
			indice[chave] = i
		}
	}

	colunas := make(map[string]int)
	for campo, aliases := range aliasesColunas {
		for _, alias := range aliases {
			if i, ok := indice[normalizarNomeColuna(alias)]; ok {
				colunas[campo] = i
				break
			}
		}
	}
	return colunas
}

// limparCampo descarta os marcadores de célula vazia herdados das planilhas.
func limparCampo(valor string) string {
	switch strings.ToLower(valor) {
	case "nan", "none", "null":
		return ""
	}
	return valor
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

func numero(valor string) float64 {
	if valor == "" {
		return 0
	}
	v, err := shareddomain.ParseNumeroLocale(valor)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
