package application

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"catalogprep/internal/catalog/domain"
	"catalogprep/internal/config"
	cubingdomain "catalogprep/internal/cubing/domain"
	pricingapp "catalogprep/internal/pricing/application"
	pricingdomain "catalogprep/internal/pricing/domain"
	shareddomain "catalogprep/internal/shared/domain"
)

// BuscaFornecedores localiza um fornecedor cadastrado pelo nome da marca.
type BuscaFornecedores interface {
	BuscarPorNome(ctx context.Context, nome string) (domain.Fornecedor, bool, error)
}

// linhasPrazoEspecial são as linhas de produto da fábrica própria que saem
// com prazo reduzido de 10 dias.
var linhasPrazoEspecial = []string{"MORGAN", "LISBOA", "SHER", "JULIETTE", "JULIETE"}

const prazoEspecialDias = 10

// Expressões de cor removidas da descrição HTML de pais e variações. O token
// solto fica por último para não quebrar as formas com preposição.
var padroesExpressaoCor = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*na\s+cor\s+\(cor\)`),
	regexp.MustCompile(`(?i)\s*no\s+tom\s+\(cor\)`),
	regexp.MustCompile(`(?i)\s*da\s+cor\s+\(cor\)`),
	regexp.MustCompile(`(?i)\s*de\s+cor\s+\(cor\)`),
	regexp.MustCompile(`(?i)\s*com\s+cor\s+\(cor\)`),
	regexp.MustCompile(`(?i)\s*em\s+cor\s+\(cor\)`),
	regexp.MustCompile(`(?i)\s*na\s+tonalidade\s+\(cor\)`),
	regexp.MustCompile(`(?i)\s*no\s+acabamento\s+\(cor\)`),
	regexp.MustCompile(`(?i)\s*\(cor\)`),
}

var (
	reMarcadorCor      = regexp.MustCompile(`(?i)\(cor\)`)
	reEspacosMultiplos = regexp.MustCompile(`\s+`)
)

// ResultadoProcessamento resume uma rodada de montagem do catálogo.
type ResultadoProcessamento struct {
	RunID          string
	Sucesso        bool
	TotalProdutos  int
	TotalVariacoes int
	TotalLojaWeb   int
	TotalKits      int
	Duracao        time.Duration
	Erros          []string
	Avisos         []string
}

// Saida reúne as quatro abas de destino e o resumo da rodada.
type Saida struct {
	Produtos  []domain.ProdutoDestino
	Variacoes []domain.VariacaoDestino
	LojaWeb   []domain.LojaWebDestino
	Kits      []domain.KitDestino
	Resultado ResultadoProcessamento
}

// Assembler transforma as linhas da planilha de origem nas abas da planilha
// de cadastro: PRODUTO, VARIACAO, LOJA WEB e KIT.
type Assembler struct {
	perfil       config.Perfil
	precos       *pricingapp.Resolver
	categorias   *domain.ArvoreCategorias
	fornecedores BuscaFornecedores

	// Progresso, quando definido, recebe a fração concluída (0 a 1).
	Progresso func(float64)
}

// NovoAssembler cria o montador. O resolvedor de preços, a árvore de
// categorias e o repositório de fornecedores são opcionais.
func NovoAssembler(perfil config.Perfil, precos *pricingapp.Resolver, categorias *domain.ArvoreCategorias, fornecedores BuscaFornecedores) *Assembler {
	return &Assembler{
		perfil:       perfil,
		precos:       precos,
		categorias:   categorias,
		fornecedores: fornecedores,
	}
}

func (a *Assembler) progresso(fracao float64) {
	if a.Progresso != nil {
		a.Progresso(fracao)
	}
}

// Processar monta as quatro abas a partir das linhas de origem. Linhas com
// EAN em branco separam os grupos e são preservadas como separadores na aba
// PRODUTO.
func (a *Assembler) Processar(ctx context.Context, produtos []domain.ProdutoOrigem) Saida {
	inicio := time.Now()
	resultado := ResultadoProcessamento{RunID: uuid.NewString()}

	if len(produtos) == 0 {
		resultado.Erros = append(resultado.Erros, "nenhum produto encontrado na planilha de origem")
		resultado.Duracao = time.Since(inicio)
		return Saida{Resultado: resultado}
	}
	a.progresso(0.1)

	// Pais vazios não entram em PRODUTO, LOJA WEB e KIT, mas amarram as
	// variações aos seus pais.
	var principais []domain.ProdutoOrigem
	for _, p := range produtos {
		if p.PaiVazio() {
			continue
		}
		principais = append(principais, p)
	}
	a.progresso(0.4)

	saida := Saida{}
	saida.Produtos = a.processarProdutos(ctx, produtos, &resultado)
	a.progresso(0.6)

	saida.Variacoes = a.processarVariacoes(produtos, &resultado)
	a.progresso(0.7)

	saida.LojaWeb = a.processarLojaWeb(principais, &resultado)
	a.progresso(0.8)

	saida.Kits = a.processarKits(principais)
	a.progresso(1.0)

	resultado.Sucesso = len(resultado.Erros) == 0
	resultado.TotalProdutos = len(saida.Produtos)
	resultado.TotalVariacoes = len(saida.Variacoes)
	resultado.TotalLojaWeb = len(saida.LojaWeb)
	resultado.TotalKits = len(saida.Kits)
	resultado.Duracao = time.Since(inicio)
	saida.Resultado = resultado
	return saida
}

// processarProdutos monta a aba PRODUTO preservando a separação em grupos:
// uma linha separadora entra após cada grupo que produziu registros, exceto
// o último.
func (a *Assembler) processarProdutos(ctx context.Context, produtos []domain.ProdutoOrigem, resultado *ResultadoProcessamento) []domain.ProdutoDestino {
	var grupos [][]domain.ProdutoOrigem
	var grupoAtual []domain.ProdutoOrigem

	for _, p := range produtos {
		if p.Separador() {
			if len(grupoAtual) > 0 {
				grupos = append(grupos, grupoAtual)
				grupoAtual = nil
			}
			continue
		}
		grupoAtual = append(grupoAtual, p)
	}
	if len(grupoAtual) > 0 {
		grupos = append(grupos, grupoAtual)
	}

	var destino []domain.ProdutoDestino
	for numGrupo, grupo := range grupos {
		processados := 0
		for _, p := range grupo {
			if p.PaiVazio() {
				continue
			}
			linha, err := a.montarProduto(ctx, p, resultado)
			if err != nil {
				resultado.Erros = append(resultado.Erros,
					fmt.Sprintf("produto %s: %v", p.EAN, err))
				continue
			}
			destino = append(destino, linha)
			processados++
		}

		if numGrupo < len(grupos)-1 && processados > 0 {
			destino = append(destino, domain.ProdutoSeparador())
		}
	}
	return destino
}

func (a *Assembler) montarProduto(ctx context.Context, p domain.ProdutoOrigem, resultado *ResultadoProcessamento) (domain.ProdutoDestino, error) {
	cor := a.corPorTipo(p.Cor, p.TipoProduto)
	descSite := a.descricaoSitePorTipo(p)
	descHTML := a.trocarCorNaDescricao(p, resultado)

	cubagem, err := cubingdomain.DerivarEmbalagem(descHTML, a.perfil.OpcoesCubagem())
	if err != nil {
		return domain.ProdutoDestino{}, err
	}
	for _, aviso := range cubagem.Avisos {
		resultado.Avisos = append(resultado.Avisos, fmt.Sprintf("produto %s: %s", p.EAN, aviso))
	}

	// As colunas da planilha prevalecem sobre a cubagem quando preenchidas.
	altura := p.Altura
	if altura == 0 {
		altura = cubagem.AlturaCm
	}
	largura := p.Largura
	if largura == 0 {
		largura = cubagem.LarguraCm
	}
	comprimento := p.Comprimento
	if comprimento == 0 {
		comprimento = cubagem.ComprimentoCm
	}
	pesoBruto := p.PesoBruto
	if pesoBruto == 0 {
		pesoBruto = cubagem.PesoBrutoKg
	}

	qtdeVolume := 1
	switch {
	case cubagem.QtdeVolume > 0:
		qtdeVolume = cubagem.QtdeVolume
	case p.QtdeVolume > 0:
		qtdeVolume = p.QtdeVolume
	}

	linha := domain.NovoProdutoDestino()
	linha.EAN = p.EAN
	linha.CodFabricante = p.CodFornecedor
	linha.DescNFE = p.ComplementoTitulo
	linha.DescCompra = p.TituloCompra
	linha.DescEtiqueta = p.ComplementoTitulo
	linha.ObsProduto = p.ComplementoTitulo
	linha.ComplementoProduto = a.complementoPorTipo(p.ComplementoProduto, p.Cor, p.TipoProduto)
	linha.Categoria = p.Cat
	linha.Grupo = p.Grupo
	if linha.Grupo == "" {
		linha.Grupo = "Sem Grupo"
	}
	linha.Cor = cor
	linha.DescSite = descSite
	linha.DescHTML = descHTML
	linha.Marca = a.perfil.MarcaPadrao
	linha.SiteMarca = "DRossi"
	if p.NCM != "" {
		linha.NCM = p.NCM
	}
	if strings.EqualFold(strings.TrimSpace(p.TipoProduto), "fábrica") {
		linha.FabricacaoPropria = "T"
	}
	linha.TipoProduto = a.codigoTipoProduto(p.TipoProduto)
	linha.EstoqueSeg = a.estoqueSeguranca(p.TipoProduto)

	if p.Volumes > 0 {
		linha.QtdeEmbVenda = p.Volumes
	}
	linha.QtdeVolume = qtdeVolume
	linha.PesoBruto = pesoBruto
	linha.PesoLiquido = pesoBruto
	linha.Largura = largura
	linha.Altura = altura
	linha.Comprimento = comprimento

	a.aplicarPrecificacao(&linha, p, resultado)
	a.aplicarPrazoEFornecedor(ctx, &linha, p, resultado)

	return linha, nil
}

// aplicarPrecificacao resolve o código do fabricante contra a tabela de
// custos, quando a precificação automática está habilitada.
func (a *Assembler) aplicarPrecificacao(linha *domain.ProdutoDestino, p domain.ProdutoOrigem, resultado *ResultadoProcessamento) {
	if a.precos == nil {
		return
	}
	if p.CodFornecedor == "" {
		resultado.Avisos = append(resultado.Avisos,
			fmt.Sprintf("produto %s: precificação pulada, código do fornecedor vazio", p.EAN))
		return
	}

	precos := a.precos.Resolve(p.CodFornecedor)
	if !precos.Encontrado {
		resultado.Avisos = append(resultado.Avisos,
			fmt.Sprintf("produto %s: precificação não encontrada para %q (%s)", p.EAN, p.CodFornecedor, precos.Detalhe))
		return
	}

	linha.VrCustoTotal = precos.CustoFornecedor
	linha.CustoIPI = precos.CustoIPI
	linha.CustoFrete = precos.CustoFrete
	linha.PrecoDeVenda = precos.PrecoDe
	linha.PrecoPromocao = precos.PrecoPromocao

	if a.perfil.Regra90Centavos {
		if linha.PrecoDeVenda > 0 {
			linha.PrecoDeVenda = pricingdomain.AplicarRegra90Centavos(linha.PrecoDeVenda)
		}
		if linha.PrecoPromocao > 0 {
			linha.PrecoPromocao = pricingdomain.AplicarRegra90Centavos(linha.PrecoPromocao)
		}
	}
}

// aplicarPrazoEFornecedor resolve o código do fornecedor e os prazos de
// entrega: prazo de exceção quando ativo, senão prazo do banco de
// fornecedores com fallback para a planilha, sempre passando pela
// verificação das linhas especiais da fábrica própria.
func (a *Assembler) aplicarPrazoEFornecedor(ctx context.Context, linha *domain.ProdutoDestino, p domain.ProdutoOrigem, resultado *ResultadoProcessamento) {
	fornecedor := a.perfil.MarcaPadrao
	if a.perfil.CodigoFornecedor != 0 {
		fornecedor = strconv.FormatInt(a.perfil.CodigoFornecedor, 10)
	}

	if a.perfil.PrazoExcecaoAtivo {
		linha.Fornecedor = fornecedor
		linha.DiasEntrega = a.perfil.PrazoExcecaoDias
		linha.SiteDisponibilidade = a.perfil.PrazoExcecaoDias
		return
	}

	prazo := 0
	if a.perfil.MarcaPadrao != "" {
		encontrado := false
		var f domain.Fornecedor
		if a.fornecedores != nil {
			var err error
			f, encontrado, err = a.fornecedores.BuscarPorNome(ctx, a.perfil.MarcaPadrao)
			if err != nil {
				resultado.Avisos = append(resultado.Avisos,
					fmt.Sprintf("produto %s: busca de fornecedor falhou: %v", p.EAN, err))
			}
		}

		switch {
		case encontrado && f.PrazoDias > 0:
			fornecedor = strconv.FormatInt(f.Codigo, 10)
			prazo = a.prazoEspecial(p, f.PrazoDias)
		case encontrado:
			fornecedor = strconv.FormatInt(f.Codigo, 10)
			prazo = a.prazoEspecial(p, p.Prazo)
		default:
			resultado.Avisos = append(resultado.Avisos,
				fmt.Sprintf("produto %s: fornecedor %q não encontrado no banco", p.EAN, a.perfil.MarcaPadrao))
			prazo = a.prazoEspecial(p, p.Prazo)
		}
	}

	linha.Fornecedor = fornecedor
	linha.DiasEntrega = prazo
	linha.SiteDisponibilidade = prazo
}

// prazoEspecial reduz o prazo para 10 dias nas linhas de produto da fábrica
// própria, quando a marca padrão é da família DMOV.
func (a *Assembler) prazoEspecial(p domain.ProdutoOrigem, prazoBase int) int {
	if !strings.Contains(strings.ToUpper(a.perfil.MarcaPadrao), "DMOV") {
		return prazoBase
	}
	campos := []string{
		p.ComplementoProduto,
		p.ComplementoTitulo,
		p.Anuncio,
		p.TituloCompra,
		p.DescricaoHTML,
	}
	for _, campo := range campos {
		if campo == "" {
			continue
		}
		maiusculo := strings.ToUpper(campo)
		for _, nome := range linhasPrazoEspecial {
			if strings.Contains(maiusculo, nome) {
				return prazoEspecialDias
			}
		}
	}
	return prazoBase
}

// corPorTipo devolve a cor do produto: pais ficam sem cor, os demais tipos
// recebem a cor normalizada.
func (a *Assembler) corPorTipo(cor, tipo string) string {
	if tipoOuUnitario(tipo) == domain.TipoPai {
		return ""
	}
	return shareddomain.NormalizarTexto(cor)
}

// descricaoSitePorTipo compõe a descrição para o site na ordem própria de
// cada tipo: a cor entra após o anúncio nas variações e antes nos unitários.
func (a *Assembler) descricaoSitePorTipo(p domain.ProdutoOrigem) string {
	complemento := strings.TrimSpace(p.ComplementoProduto)
	cor := shareddomain.NormalizarTexto(p.Cor)
	anuncio := domain.LimparAnuncio(p.Anuncio)

	var partes []string
	switch tipoOuUnitario(p.TipoProduto) {
	case domain.TipoPai:
		partes = []string{complemento, anuncio}
	case domain.TipoVariacao:
		partes = []string{complemento, anuncio, cor}
	default:
		partes = []string{complemento, cor, anuncio}
	}

	naoVazias := partes[:0]
	for _, parte := range partes {
		if parte != "" {
			naoVazias = append(naoVazias, parte)
		}
	}
	return strings.TrimSpace(strings.Join(naoVazias, " "))
}

// complementoPorTipo compõe o complemento do produto: variações ganham a cor
// com separador " - ", unitários com espaço, pais ficam só com a base.
func (a *Assembler) complementoPorTipo(complemento, cor, tipo string) string {
	base := strings.TrimSpace(complemento)
	corNorm := shareddomain.NormalizarTexto(cor)

	switch tipoOuUnitario(tipo) {
	case domain.TipoPai:
		return base
	case domain.TipoVariacao:
		switch {
		case base != "" && corNorm != "":
			return base + " - " + corNorm
		case base != "":
			return base
		case corNorm != "":
			return " - " + corNorm
		default:
			return ""
		}
	default:
		switch {
		case base != "" && corNorm != "":
			return base + " " + corNorm
		case base != "":
			return base
		default:
			return corNorm
		}
	}
}

// trocarCorNaDescricao ajusta o marcador (cor) na descrição HTML: pais e
// variações perdem as expressões de cor, unitários recebem a cor real.
func (a *Assembler) trocarCorNaDescricao(p domain.ProdutoOrigem, resultado *ResultadoProcessamento) string {
	desc := strings.TrimSpace(p.DescricaoHTML)
	if desc == "" {
		return ""
	}

	switch tipoOuUnitario(p.TipoProduto) {
	case domain.TipoPai, domain.TipoVariacao:
		return removerExpressoesCor(desc)
	default:
		return a.substituirCorUnitario(desc, p, resultado)
	}
}

func removerExpressoesCor(desc string) string {
	for _, padrao := range padroesExpressaoCor {
		desc = padrao.ReplaceAllString(desc, "")
	}
	return strings.TrimSpace(reEspacosMultiplos.ReplaceAllString(desc, " "))
}

func (a *Assembler) substituirCorUnitario(desc string, p domain.ProdutoOrigem, resultado *ResultadoProcessamento) string {
	cor := strings.TrimSpace(p.Cor)
	switch strings.ToLower(cor) {
	case "", "none", "null", "nan", "vazio":
		if reMarcadorCor.MatchString(desc) {
			resultado.Avisos = append(resultado.Avisos,
				fmt.Sprintf("produto %s: descrição contém (cor) mas a coluna de cor está vazia", p.EAN))
		}
		return desc
	}
	return reMarcadorCor.ReplaceAllString(desc, shareddomain.NormalizarTexto(cor))
}

// codigoTipoProduto converte o tipo da planilha para o código do cadastro.
// No modo Fornecedor tudo é 0; no modo Fábrica variações e kits viram 2.
func (a *Assembler) codigoTipoProduto(tipo string) string {
	if !a.perfil.ModoFabricaAtivo() {
		return "0"
	}
	norm := shareddomain.NormalizarTipoProduto(tipo)
	if norm == "variacao" || norm == "var" || strings.Contains(norm, "kit") {
		return "2"
	}
	return "0"
}

// estoqueSeguranca aplica o estoque inicial de 1000: nas variações no modo
// Fornecedor, nos unitários no modo Fábrica.
func (a *Assembler) estoqueSeguranca(tipo string) int {
	norm := shareddomain.NormalizarTipoProduto(tipo)
	variacao := norm == "variacao" || norm == "var"
	unitario := norm == "unitario" || norm == "un" || norm == "u"

	if a.perfil.ModoFabricaAtivo() {
		if unitario {
			return 1000
		}
		return 0
	}
	if variacao {
		return 1000
	}
	return 0
}

// processarVariacoes liga cada variação ao pai de mesmo complemento do
// produto, com fallback case-insensitive. Variações sem pai são descartadas
// com aviso.
func (a *Assembler) processarVariacoes(produtos []domain.ProdutoOrigem, resultado *ResultadoProcessamento) []domain.VariacaoDestino {
	paisPorComplemento := make(map[string]string)
	for _, p := range produtos {
		if p.TipoNormalizado() != domain.TipoPai {
			continue
		}
		complemento := strings.TrimSpace(p.ComplementoProduto)
		if complemento == "" {
			resultado.Avisos = append(resultado.Avisos,
				fmt.Sprintf("produto pai %s sem complemento do produto", p.EAN))
			continue
		}
		paisPorComplemento[complemento] = p.EAN
	}

	var variacoes []domain.VariacaoDestino
	for _, p := range produtos {
		if p.TipoNormalizado() != domain.TipoVariacao {
			continue
		}

		complemento := strings.TrimSpace(p.ComplementoProduto)
		eanPai, ok := paisPorComplemento[complemento]
		if !ok && complemento != "" {
			for complementoPai, ean := range paisPorComplemento {
				if strings.EqualFold(complementoPai, complemento) {
					eanPai = ean
					ok = true
					break
				}
			}
		}
		if !ok {
			resultado.Avisos = append(resultado.Avisos,
				fmt.Sprintf("variação %s sem pai para o complemento %q", p.EAN, complemento))
			continue
		}

		variacoes = append(variacoes, domain.VariacaoDestino{
			EANFilho: p.EAN,
			EANPai:   eanPai,
			Cor:      shareddomain.NormalizarTexto(p.Cor),
		})
	}
	return variacoes
}

// processarLojaWeb monta a aba LOJA WEB resolvendo a hierarquia ascendente
// de categorias: um nível vira principal, dois viram principal e nível 1,
// três ou mais preenchem até o nível 2.
func (a *Assembler) processarLojaWeb(produtos []domain.ProdutoOrigem, resultado *ResultadoProcessamento) []domain.LojaWebDestino {
	var lojaWeb []domain.LojaWebDestino

	for _, p := range produtos {
		if p.Separador() {
			continue
		}

		linha := domain.NovaLojaWebDestino(p.EAN)

		categoria := strings.TrimSpace(p.Categoria)
		if categoria != "" && categoria != "0" && a.categorias != nil {
			id, err := strconv.Atoi(categoria)
			if err != nil {
				resultado.Avisos = append(resultado.Avisos,
					fmt.Sprintf("produto %s: id de categoria inválido %q", p.EAN, categoria))
				continue
			}

			caminho := a.categorias.CaminhoAscendente(id)
			switch {
			case len(caminho) == 0:
				resultado.Avisos = append(resultado.Avisos,
					fmt.Sprintf("produto %s: categoria %d não encontrada", p.EAN, id))
			case len(caminho) == 1:
				linha.CategoriaPrincipal = caminho[0]
			case len(caminho) == 2:
				linha.CategoriaPrincipal = caminho[0]
				linha.Nivel1 = caminho[1]
			default:
				linha.CategoriaPrincipal = caminho[0]
				linha.Nivel1 = caminho[1]
				linha.Nivel2 = caminho[2]
			}
		}

		lojaWeb = append(lojaWeb, linha)
	}
	return lojaWeb
}

// processarKits monta a aba KIT com o componente fixo do modelo de cadastro.
func (a *Assembler) processarKits(produtos []domain.ProdutoOrigem) []domain.KitDestino {
	var kits []domain.KitDestino
	for _, p := range produtos {
		if p.TipoNormalizado() != domain.TipoKit {
			continue
		}
		kits = append(kits, domain.KitDestino{
			EANKit:        p.EAN,
			EANComponente: domain.EANComponenteKit,
			Quantidade:    1,
		})
	}
	return kits
}

// tipoOuUnitario normaliza o tipo tratando o vazio como unitário.
func tipoOuUnitario(tipo string) string {
	norm := shareddomain.NormalizarTipoProduto(tipo)
	if norm == "" {
		return domain.TipoUnitario
	}
	return norm
}
