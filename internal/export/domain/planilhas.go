package domain

import (
	"fmt"
	"strconv"
	"strings"

	athosdomain "catalogprep/internal/athos/domain"
	catalogdomain "catalogprep/internal/catalog/domain"
)

// Nomes dos arquivos gerados para a planilha de cadastro.
const (
	ArquivoProduto  = "PRODUTO.csv"
	ArquivoVariacao = "VARIACAO.csv"
	ArquivoLojaWeb  = "LOJA_WEB.csv"
	ArquivoKit      = "KIT.csv"
)

// CabecalhoProduto devolve os títulos da aba PRODUTO, na ordem do
// modelo de cadastro.
func CabecalhoProduto() []string {
	return []string{
		"Código de Barras",
		"Código Fabricante",
		"Fornecedor",
		"Descrição Produto Nfe",
		"Descrição para Compra",
		"Descrição Etiqueta",
		"Observação Produto",
		"Complemento do Produto",
		"Categoria",
		"Grupo",
		"Cor do Produto",
		"Descrição para o Site",
		"Marca",
		"NCM",
		"VR Custo Total",
		"Custo IPI",
		"Custo Frete",
		"Preço de Venda",
		"Preço Promoção",
		"Fabricação Própria",
		"Tipo Produto",
		"Imprime Compl Pedido",
		"Imprime Compl Compra",
		"Imprime Compl NF",
		"Site Marca",
		"Unidade de Venda",
		"Unidade de Compra",
		"Produto Inativo",
		"Dias de Garantia",
		"Site Garantia",
		"Inicio Promoção",
		"Fim Promoção",
		"Qtde Embalagem Venda",
		"Qtde Volume",
		"Peso Bruto",
		"Peso Liquido",
		"Largura",
		"Altura",
		"Comprimento",
		"Diâmetro",
		"Estoque Mínimo",
		"Estoque de Segurança",
		"Dias para Entrega",
		"Site Disponibilidade",
		"Descrição HTML WEB",
	}
}

// LinhaProduto converte uma linha da aba PRODUTO para o CSV. O Custo
// IPI zerado sai em branco, como no modelo de cadastro.
func LinhaProduto(p catalogdomain.ProdutoDestino) []string {
	custoIPI := ""
	if p.CustoIPI != 0 {
		custoIPI = moeda(p.CustoIPI)
	}
	return []string{
		p.EAN,
		p.CodFabricante,
		p.Fornecedor,
		p.DescNFE,
		p.DescCompra,
		p.DescEtiqueta,
		p.ObsProduto,
		p.ComplementoProduto,
		p.Categoria,
		p.Grupo,
		p.Cor,
		p.DescSite,
		p.Marca,
		p.NCM,
		moeda(p.VrCustoTotal),
		custoIPI,
		moeda(p.CustoFrete),
		moeda(p.PrecoDeVenda),
		moeda(p.PrecoPromocao),
		p.FabricacaoPropria,
		p.TipoProduto,
		p.ImprimePed,
		p.ImprimeComp,
		p.ImprimeNF,
		p.SiteMarca,
		p.UnidadeVenda,
		p.UnidadeCompra,
		p.ProdutoInativo,
		strconv.Itoa(p.DiasGarantia),
		p.SiteGarantia,
		p.InicioPromocao,
		p.FimPromocao,
		strconv.Itoa(p.QtdeEmbVenda),
		strconv.Itoa(p.QtdeVolume),
		medida(p.PesoBruto),
		medida(p.PesoLiquido),
		medida(p.Largura),
		medida(p.Altura),
		medida(p.Comprimento),
		medida(p.Diametro),
		strconv.Itoa(p.EstoqueMin),
		strconv.Itoa(p.EstoqueSeg),
		strconv.Itoa(p.DiasEntrega),
		strconv.Itoa(p.SiteDisponibilidade),
		p.DescHTML,
	}
}

// CabecalhoVariacao devolve os títulos da aba VARIACAO.
func CabecalhoVariacao() []string {
	return []string{"EAN_FILHO", "EAN_PAI", "COR"}
}

// LinhaVariacao converte uma linha da aba VARIACAO.
func LinhaVariacao(v catalogdomain.VariacaoDestino) []string {
	return []string{v.EANFilho, v.EANPai, v.Cor}
}

// CabecalhoLojaWeb devolve os títulos da aba LOJA WEB.
func CabecalhoLojaWeb() []string {
	return []string{
		"EAN",
		"COD LOJA",
		"Enviar para o Site",
		"Disponibilizar Site",
		"Site Lançamento",
		"Site Destaque",
		"CATEGORIA PRINCIPAL TRAY",
		"NIVEL ADICIONAL 1 TRAY",
		"NIVEL ADICIONAL 2 TRAY",
		"NIVEL ADICIONAL 3 TRAY",
	}
}

// LinhaLojaWeb converte uma linha da aba LOJA WEB.
func LinhaLojaWeb(l catalogdomain.LojaWebDestino) []string {
	return []string{
		l.EAN,
		l.CodLoja,
		l.EnviarSite,
		l.DisponibilizarSite,
		l.SiteLancamento,
		l.SiteDestaque,
		l.CategoriaPrincipal,
		l.Nivel1,
		l.Nivel2,
		l.Nivel3,
	}
}

// CabecalhoKit devolve os títulos da aba KIT.
func CabecalhoKit() []string {
	return []string{"EAN_KIT", "EAN_COMPONENTE", "QTDE", "% CUSTO DO KIT", "% DESC VENDA"}
}

// LinhaKit converte uma linha da aba KIT.
func LinhaKit(k catalogdomain.KitDestino) []string {
	return []string{
		k.EANKit,
		k.EANComponente,
		strconv.Itoa(k.Quantidade),
		moeda(k.CustoKit),
		moeda(k.DescVenda),
	}
}

// ========================================
// Planilhas de atualização do Athos
// ========================================

// ArquivoPorRegra dá o nome do arquivo de atualização de cada regra.
var ArquivoPorRegra = map[athosdomain.Regra]string{
	athosdomain.RegraForaDeLinha:          "01_FORA_DE_LINHA.csv",
	athosdomain.RegraEstoqueCompartilhado: "02_ESTOQUE_COMPARTILHADO.csv",
	athosdomain.RegraEnvioImediato:        "03_ENVIO_IMEDIATO.csv",
	athosdomain.RegraNenhumGrupo:          "04_SEM_GRUPO.csv",
	athosdomain.RegraOutlet:               "05_OUTLET.csv",
}

// ArquivoRelatorio é o nome do relatório consolidado (sem a extensão).
const ArquivoRelatorio = "RELATORIO_CONSOLIDADO"

// CabecalhoAtualizacao devolve os títulos da planilha de atualização
// importada no ERP.
func CabecalhoAtualizacao() []string {
	return []string{
		"Código de Barras",
		"GRUPO3",
		"Estoque de Segurança",
		"Produto Inativo",
		"Dias para Entrega",
		"Site Disponibilidade",
	}
}

// LinhaAtualizacao converte uma ação do motor de regras em linha da
// planilha de atualização. Campos não definidos saem em branco; os dias
// de entrega seguem o valor lógico da disponibilidade do site.
func LinhaAtualizacao(a athosdomain.Acao) []string {
	grupo3 := ""
	if a.Grupo3 != nil {
		grupo3 = *a.Grupo3
	}
	estoque := ""
	if a.EstoqueSeguranca != nil {
		estoque = strconv.Itoa(*a.EstoqueSeguranca)
	}
	inativo := ""
	if a.ProdutoInativo != nil {
		inativo = *a.ProdutoInativo
	}
	site := ""
	if a.SiteDisponibilidade != nil {
		site = *a.SiteDisponibilidade
	}
	return []string{
		a.Codbarra,
		grupo3,
		estoque,
		inativo,
		diasParaEntrega(a.DiasEntrega, site),
		site,
	}
}

// diasParaEntrega espelha a disponibilidade do site quando os dias não
// foram definidos: "IMEDIATA" vira 0 e textos numéricos viram o número.
func diasParaEntrega(dias *int, site string) string {
	if dias != nil {
		return strconv.Itoa(*dias)
	}
	s := strings.TrimSpace(site)
	if s == "" {
		return ""
	}
	if strings.EqualFold(s, "imediata") {
		return "0"
	}
	for i, r := range s {
		if r >= '0' && r <= '9' {
			j := i
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			return s[i:j]
		}
	}
	return s
}

// CabecalhoRelatorio devolve os títulos do relatório consolidado.
func CabecalhoRelatorio() []string {
	return []string{"PLANILHA", "COD_BARRA", "TIPO", "MARCA", "GRUPO3", "ACAO"}
}

// LinhaRelatorio converte uma entrada do relatório consolidado.
func LinhaRelatorio(r athosdomain.LinhaRelatorio) []string {
	return []string{r.Planilha, r.Codbarra, string(r.Tipo), r.Marca, r.Grupo3, r.Acao}
}

// RelatorioParquet é a forma colunar do relatório consolidado.
type RelatorioParquet struct {
	Planilha string `parquet:"name=planilha, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Codbarra string `parquet:"name=cod_barra, type=BYTE_ARRAY, convertedtype=UTF8"`
	Tipo     string `parquet:"name=tipo, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Marca    string `parquet:"name=marca, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Grupo3   string `parquet:"name=grupo3, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Acao     string `parquet:"name=acao, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// NovoRelatorioParquet converte a entrada do relatório para a forma
// colunar.
func NovoRelatorioParquet(r athosdomain.LinhaRelatorio) RelatorioParquet {
	return RelatorioParquet{
		Planilha: r.Planilha,
		Codbarra: r.Codbarra,
		Tipo:     string(r.Tipo),
		Marca:    r.Marca,
		Grupo3:   r.Grupo3,
		Acao:     r.Acao,
	}
}

func moeda(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func medida(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
