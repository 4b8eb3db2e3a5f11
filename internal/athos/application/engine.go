package application

import (
	"fmt"
	"strconv"
	"strings"

	"catalogprep/internal/athos/domain"
	shareddomain "catalogprep/internal/shared/domain"
)

// Marcas da regra especial do ENVIO IMEDIATO (somente relatório).
var marcasImediatoEspecial = map[string]struct{}{
	"MOVEIS VILA RICA": {},
	"COLIBRI MOVEIS":   {},
	"MADETEC":          {},
	"CAEMMUN":          {},
	"LINEA BRASIL":     {},
}

// Marcas com comportamento especial no OUTLET.
var marcasOutlet3Dias = map[string]struct{}{
	"DMOV":  {},
	"DMOV2": {},
}

var marcasOutletImediata = map[string]struct{}{
	"KONFORT":      {},
	"CASA DO PUFF": {},
	"DIVINI DECOR": {},
}

// Marcas que viram IMEDIATA no ENVIO IMEDIATO quando há estoque.
var marcasImediata = map[string]struct{}{
	"KONFORT":      {},
	"CASA DO PUFF": {},
	"DIVINI DECOR": {},
	"LUMIL":        {},
	"MADERATTO":    {},
}

// Marcas ignoradas na regra NENHUM GRUPO.
var marcasIgnorarSemGrupo = map[string]struct{}{
	"DMOV - MP": {},
}

// ConsultaPrazo busca o prazo cadastrado para uma marca (já em maiúsculas).
// O segundo retorno indica se a marca foi encontrada.
type ConsultaPrazo func(marca string) (int, bool)

// Saida agrupa o resultado de uma execução do motor de regras.
type Saida struct {
	AcoesPorRegra map[domain.Regra][]domain.Acao
	Relatorio     []domain.LinhaRelatorio
}

// Engine aplica as regras de reclassificação sobre as linhas do ERP.
// Cada chamada a Processar trabalha com estado próprio, então uma mesma
// instância pode ser reutilizada entre execuções.
type Engine struct {
	whitelist       map[string]struct{}
	prazoFornecedor ConsultaPrazo
}

// NovoEngine cria o motor com a whitelist de EANs do envio imediato e a
// consulta opcional de prazos por marca.
func NovoEngine(whitelist map[string]struct{}, prazoFornecedor ConsultaPrazo) *Engine {
	if whitelist == nil {
		whitelist = map[string]struct{}{}
	}
	return &Engine{whitelist: whitelist, prazoFornecedor: prazoFornecedor}
}

// execucao carrega o estado mutável de uma única passada pelas regras.
type execucao struct {
	eng *Engine

	porPai    map[string][]domain.Linha
	ordemPais []string

	travadoPor map[string]domain.Regra
	bloqueados map[string]struct{}

	acoes     map[domain.Regra]map[string]*domain.Acao
	ordem     map[domain.Regra][]string
	relatorio []domain.LinhaRelatorio
}

// Processar executa as cinco regras na ordem fixa e devolve as ações por
// regra mais o relatório consolidado. Regras anteriores travam itens
// contra alterações das posteriores.
func (e *Engine) Processar(linhas []domain.Linha) Saida {
	ex := &execucao{
		eng:        e,
		porPai:     map[string][]domain.Linha{},
		travadoPor: map[string]domain.Regra{},
		bloqueados: map[string]struct{}{},
		acoes:      map[domain.Regra]map[string]*domain.Acao{},
		ordem:      map[domain.Regra][]string{},
	}
	for _, regra := range domain.RegrasOrdenadas {
		ex.acoes[regra] = map[string]*domain.Acao{}
	}
	for _, l := range linhas {
		chave := l.ChavePai()
		if _, visto := ex.porPai[chave]; !visto {
			ex.ordemPais = append(ex.ordemPais, chave)
		}
		ex.porPai[chave] = append(ex.porPai[chave], l)
	}

	ex.regraForaDeLinha(linhas)
	ex.regraEstoqueCompartilhado()
	ex.regraEnvioImediato(linhas)
	ex.regraNenhumGrupo(linhas)
	ex.regraOutlet()

	saida := Saida{AcoesPorRegra: map[domain.Regra][]domain.Acao{}, Relatorio: ex.relatorio}
	for _, regra := range domain.RegrasOrdenadas {
		acoes := make([]domain.Acao, 0, len(ex.ordem[regra]))
		for _, cod := range ex.ordem[regra] {
			acoes = append(acoes, *ex.acoes[regra][cod])
		}
		saida.AcoesPorRegra[regra] = acoes
	}
	return saida
}

// ========================================
// Estado compartilhado entre as regras
// ========================================

func (ex *execucao) travar(cod string, regra domain.Regra) {
	if cod == "" {
		return
	}
	if _, ok := ex.travadoPor[cod]; !ok {
		ex.travadoPor[cod] = regra
	}
}

func (ex *execucao) travado(cod string) bool {
	if _, ok := ex.travadoPor[cod]; ok {
		return true
	}
	_, ok := ex.bloqueados[cod]
	return ok
}

// registrar insere ou mescla uma ação no balde da regra. A mesclagem é
// aditiva: nunca sobrescreve campos já definidos por outra linha.
func (ex *execucao) registrar(a domain.Acao) {
	balde := ex.acoes[a.Regra]
	if existente, ok := balde[a.Codbarra]; ok {
		existente.Mesclar(a)
		return
	}
	copia := a
	balde[a.Codbarra] = &copia
	ex.ordem[a.Regra] = append(ex.ordem[a.Regra], a.Codbarra)
}

func (ex *execucao) relatar(regra domain.Regra, cod string, tipo domain.TipoItem, marca, grupo3, acao string) {
	ex.relatorio = append(ex.relatorio, domain.LinhaRelatorio{
		Planilha: string(regra),
		Codbarra: cod,
		Tipo:     tipo,
		Marca:    marca,
		Grupo3:   grupo3,
		Acao:     acao,
	})
}

// prazoFornecedor resolve o prazo de um item na ordem: grupo do item,
// banco de fornecedores pela marca, prazo declarado no ERP, zero.
func (ex *execucao) prazoFornecedor(l domain.Linha, tipo domain.TipoItem) int {
	var grupo, marca, declarado string
	switch tipo {
	case domain.TipoPA:
		grupo, marca, declarado = l.GrupoProduto, l.FabricanteProduto, l.PrazoProduto
	case domain.TipoKit:
		grupo, marca, declarado = l.GrupoKit, l.FabricanteKit, l.PrazoKit
	default:
		grupo, marca, declarado = l.GrupoPai, l.FabricantePai, l.PrazoPai
	}

	if p, ok := shareddomain.ParseIntSeguro(grupo); ok {
		return p
	}
	m := strings.ToUpper(strings.TrimSpace(marca))
	if ex.eng.prazoFornecedor != nil && m != "" {
		if p, ok := ex.eng.prazoFornecedor(m); ok {
			return p
		}
	}
	if p, ok := shareddomain.ParseIntSeguro(declarado); ok {
		return p
	}
	return 0
}

// emissao descreve uma emissão conjunta de ações para PA, KIT e PAI de
// uma mesma linha do join.
type emissao struct {
	grupo3         *string
	produtoInativo *string
	dias           *int
	site           *string
	estoquePA      *int
	estoqueKit     *int
	estoquePai     *int
	msgPA          string
	msgKit         string
	msgPai         string
	semPai         bool
}

func (ex *execucao) emitir(regra domain.Regra, l domain.Linha, em emissao) {
	grupo3PA := strings.TrimSpace(l.NomeGrupo3)

	emitirUm := func(tipo domain.TipoItem, cod, marca string, estoque *int, msg string) {
		if cod == "" || ex.travado(cod) {
			return
		}
		a := domain.Acao{Regra: regra, Tipo: tipo, Codbarra: cod}
		a.Grupo3 = em.grupo3
		a.ProdutoInativo = em.produtoInativo
		a.DiasEntrega = em.dias
		a.SiteDisponibilidade = em.site
		a.EstoqueSeguranca = estoque
		a.Marca = marca
		a.Grupo3OrigemPA = grupo3PA
		if msg != "" {
			a.Mensagens = append(a.Mensagens, msg)
			ex.relatar(regra, cod, tipo, marca, grupo3PA, msg)
		}
		ex.registrar(a)
		ex.travar(cod, regra)
	}

	emitirUm(domain.TipoPA, l.CodbarraProduto, l.FabricanteProduto, em.estoquePA, em.msgPA)
	emitirUm(domain.TipoKit, l.CodbarraKit, l.FabricanteKit, em.estoqueKit, em.msgKit)
	if !em.semPai {
		emitirUm(domain.TipoPai, l.CodbarraPai, l.FabricantePai, em.estoquePai, em.msgPai)
	}
}

// ========================================
// 1) FORA DE LINHA
// ========================================

// regraForaDeLinha inativa PA, KIT e PAI dos produtos fora de linha sem
// estoque disponível.
func (ex *execucao) regraForaDeLinha(linhas []domain.Linha) {
	for _, l := range linhas {
		if g3, ok := l.Grupo3(); !ok || g3 != string(domain.RegraForaDeLinha) {
			continue
		}
		if l.EstoqueProduto > 0 || l.CodbarraProduto == "" {
			continue
		}
		ex.emitir(domain.RegraForaDeLinha, l, emissao{
			produtoInativo: domain.StrPtr("T"),
			msgPA:          "PRODUTO INATIVADO",
			msgKit:         "PRODUTO INATIVADO",
			msgPai:         "PRODUTO INATIVADO",
		})
	}
}

// ========================================
// 2) ESTOQUE COMPARTILHADO
// ========================================

// regraEstoqueCompartilhado faz o KIT herdar o prazo do PA e o PAI
// receber o maior prazo entre os KITS do mesmo pai.
func (ex *execucao) regraEstoqueCompartilhado() {
	for _, chavePai := range ex.ordemPais {
		var grupo []domain.Linha
		for _, l := range ex.porPai[chavePai] {
			if g3, ok := l.Grupo3(); ok && g3 == string(domain.RegraEstoqueCompartilhado) {
				grupo = append(grupo, l)
			}
		}
		if len(grupo) == 0 {
			continue
		}

		var prazosKits []int
		for _, l := range grupo {
			if l.CodbarraKit == "" || ex.travado(l.CodbarraKit) {
				continue
			}

			if strings.EqualFold(strings.TrimSpace(l.PrazoProduto), "imediata") {
				a := domain.Acao{Regra: domain.RegraEstoqueCompartilhado, Tipo: domain.TipoKit, Codbarra: l.CodbarraKit}
				a.AplicarImediata()
				a.Marca = l.FabricanteKit
				a.Grupo3OrigemPA = strings.TrimSpace(l.NomeGrupo3)
				a.Mensagens = append(a.Mensagens, "PRAZO HERDADO DO PA (IMEDIATA)")
				ex.registrar(a)
				ex.travar(a.Codbarra, domain.RegraEstoqueCompartilhado)
				ex.relatar(domain.RegraEstoqueCompartilhado, a.Codbarra, a.Tipo, a.Marca, a.Grupo3OrigemPA, "PRAZO HERDADO DO PA (IMEDIATA)")
				continue
			}

			p, ok := shareddomain.ParseIntSeguro(l.PrazoProduto)
			if !ok {
				continue
			}
			prazosKits = append(prazosKits, p)
			msg := fmt.Sprintf("PRAZO HERDADO DO PA: %d DIAS", p)
			a := domain.Acao{Regra: domain.RegraEstoqueCompartilhado, Tipo: domain.TipoKit, Codbarra: l.CodbarraKit}
			a.AplicarPrazo(p)
			a.Marca = l.FabricanteKit
			a.Grupo3OrigemPA = strings.TrimSpace(l.NomeGrupo3)
			a.Mensagens = append(a.Mensagens, msg)
			ex.registrar(a)
			ex.travar(a.Codbarra, domain.RegraEstoqueCompartilhado)
			ex.relatar(domain.RegraEstoqueCompartilhado, a.Codbarra, a.Tipo, a.Marca, a.Grupo3OrigemPA, msg)
		}

		if chavePai == domain.SemPai || len(prazosKits) == 0 || ex.travado(chavePai) {
			continue
		}
		maior := prazosKits[0]
		for _, p := range prazosKits[1:] {
			if p > maior {
				maior = p
			}
		}
		msg := fmt.Sprintf("MAIOR PRAZO DOS KITS: %d DIAS", maior)
		a := domain.Acao{Regra: domain.RegraEstoqueCompartilhado, Tipo: domain.TipoPai, Codbarra: chavePai}
		a.AplicarPrazo(maior)
		for _, l := range grupo {
			if l.FabricantePai != "" {
				a.Marca = l.FabricantePai
				break
			}
		}
		a.Grupo3OrigemPA = string(domain.RegraEstoqueCompartilhado)
		a.Mensagens = append(a.Mensagens, msg)
		ex.registrar(a)
		ex.travar(a.Codbarra, domain.RegraEstoqueCompartilhado)
		ex.relatar(domain.RegraEstoqueCompartilhado, a.Codbarra, a.Tipo, a.Marca, a.Grupo3OrigemPA, msg)
	}
}

// ========================================
// 3) ENVIO IMEDIATO
// ========================================

func (ex *execucao) regraEnvioImediato(linhas []domain.Linha) {
	ex.envioImediatoForaDaWhitelist(linhas)
	ex.envioImediatoMarcasEspeciais()
	ex.envioImediatoPorPai()
}

// envioImediatoForaDaWhitelist retira do grupo3 os PAs que não estão na
// whitelist de imediatos.
func (ex *execucao) envioImediatoForaDaWhitelist(linhas []domain.Linha) {
	for _, l := range linhas {
		if g3, ok := l.Grupo3(); !ok || g3 != string(domain.RegraEnvioImediato) {
			continue
		}
		if l.CodbarraProduto == "" || ex.travado(l.CodbarraProduto) {
			continue
		}
		if _, ok := ex.eng.whitelist[l.CodbarraProduto]; ok {
			continue
		}
		a := domain.Acao{Regra: domain.RegraEnvioImediato, Tipo: domain.TipoPA, Codbarra: l.CodbarraProduto}
		a.Grupo3 = domain.StrPtr("APAGAR")
		a.Marca = l.FabricanteProduto
		a.Grupo3OrigemPA = strings.TrimSpace(l.NomeGrupo3)
		a.Mensagens = append(a.Mensagens, "RETIRADO DO GRUPO3 ENVIO IMEDIATO")
		ex.registrar(a)
		ex.travar(a.Codbarra, domain.RegraEnvioImediato)
		ex.relatar(domain.RegraEnvioImediato, a.Codbarra, a.Tipo, a.Marca, a.Grupo3OrigemPA, "RETIRADO DO GRUPO3 ENVIO IMEDIATO")
	}
}

// envioImediatoMarcasEspeciais só gera relatório: grupos de marcas
// especiais totalmente sem estoque são bloqueados contra as demais
// regras e apontados para revisão manual.
func (ex *execucao) envioImediatoMarcasEspeciais() {
	for _, chavePai := range ex.ordemPais {
		var grupo []domain.Linha
		for _, l := range ex.porPai[chavePai] {
			g3, ok := l.Grupo3()
			if ok && g3 == string(domain.RegraEnvioImediato) && l.CodbarraProduto != "" {
				grupo = append(grupo, l)
			}
		}
		if len(grupo) == 0 {
			continue
		}

		var especiais []domain.Linha
		for _, l := range grupo {
			marca := strings.ToUpper(strings.TrimSpace(l.FabricanteProduto))
			if _, ok := marcasImediatoEspecial[marca]; ok {
				especiais = append(especiais, l)
			}
		}
		if len(especiais) == 0 {
			continue
		}

		todosSemEstoque := true
		for _, l := range grupo {
			if l.EstoqueProduto > 0 {
				todosSemEstoque = false
				break
			}
		}
		if !todosSemEstoque {
			continue
		}

		for _, l := range grupo {
			for _, cod := range []string{l.CodbarraProduto, l.CodbarraKit, l.CodbarraPai} {
				if cod != "" {
					ex.bloqueados[cod] = struct{}{}
				}
			}
		}
		for _, l := range especiais {
			ex.relatar(domain.RegraEnvioImediato, l.CodbarraProduto, domain.TipoPA,
				l.FabricanteProduto, strings.TrimSpace(l.NomeGrupo3),
				"Colocar cód Fabricante, mudar para Estoque Compartilhado")
		}
	}
}

// envioImediatoPorPai trata, por pai, os PAs da whitelist: prazo por
// marca quando há estoque, prazo de fornecedor com estoque de segurança
// quando não há.
func (ex *execucao) envioImediatoPorPai() {
	for _, chavePai := range ex.ordemPais {
		var grupo []domain.Linha
		for _, l := range ex.porPai[chavePai] {
			g3, ok := l.Grupo3()
			if !ok || g3 != string(domain.RegraEnvioImediato) || l.CodbarraProduto == "" {
				continue
			}
			if _, ok := ex.eng.whitelist[l.CodbarraProduto]; ok {
				grupo = append(grupo, l)
			}
		}
		if len(grupo) == 0 {
			continue
		}

		todosComEstoque := true
		todosSemEstoque := true
		for _, l := range grupo {
			if l.EstoqueProduto > 0 {
				todosSemEstoque = false
			} else {
				todosComEstoque = false
			}
		}
		marcaGrupo := strings.ToUpper(strings.TrimSpace(grupo[0].FabricanteProduto))

		definirPai := func(dias int, site, msg string) {
			if chavePai == domain.SemPai || ex.travado(chavePai) {
				return
			}
			a := domain.Acao{Regra: domain.RegraEnvioImediato, Tipo: domain.TipoPai, Codbarra: chavePai}
			a.DiasEntrega = domain.IntPtr(dias)
			a.SiteDisponibilidade = domain.StrPtr(site)
			a.EstoqueSeguranca = domain.IntPtr(0)
			a.Marca = grupo[0].FabricantePai
			a.Grupo3OrigemPA = string(domain.RegraEnvioImediato)
			a.Mensagens = append(a.Mensagens, msg)
			ex.registrar(a)
			ex.travar(a.Codbarra, domain.RegraEnvioImediato)
			ex.relatar(domain.RegraEnvioImediato, a.Codbarra, a.Tipo, a.Marca, a.Grupo3OrigemPA, msg)
		}

		maiorPrazoFornecedor := func() int {
			maior := 0
			for _, l := range grupo {
				if p := ex.prazoFornecedor(l, domain.TipoPA); p > maior {
					maior = p
				}
			}
			return maior
		}

		switch {
		case marcaGrupo == "DMOV2":
			for _, l := range grupo {
				if l.EstoqueProduto > 0 {
					ex.emitir(domain.RegraEnvioImediato, l, emissao{
						estoquePA:  domain.IntPtr(1000),
						estoqueKit: domain.IntPtr(0),
						estoquePai: domain.IntPtr(0),
						dias:       domain.IntPtr(3),
						site:       domain.StrPtr("3"),
						msgPA:      "INCLUIDO 1000 ESTOQUE SEG",
						msgKit:     "PRAZO DEFINIDO 3 DIAS",
					})
				} else {
					p := ex.prazoFornecedor(l, domain.TipoPA)
					msg := fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", p)
					ex.emitir(domain.RegraEnvioImediato, l, emissao{
						estoquePA:  domain.IntPtr(0),
						estoqueKit: domain.IntPtr(0),
						estoquePai: domain.IntPtr(0),
						dias:       domain.IntPtr(p),
						site:       domain.StrPtr(strconv.Itoa(p)),
						msgPA:      msg,
						msgKit:     msg,
					})
				}
			}
			if chavePai != domain.SemPai {
				if todosComEstoque {
					definirPai(3, "3", "PRAZO DEFINIDO 3 DIAS")
				} else {
					pmax := maiorPrazoFornecedor()
					definirPai(pmax, strconv.Itoa(pmax), fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", pmax))
				}
			}

		case contemMarca(marcasImediata, marcaGrupo):
			switch {
			case todosComEstoque:
				for _, l := range grupo {
					ex.emitir(domain.RegraEnvioImediato, l, emissao{
						estoquePA:  domain.IntPtr(0),
						estoqueKit: domain.IntPtr(0),
						estoquePai: domain.IntPtr(0),
						dias:       domain.IntPtr(0),
						site:       domain.StrPtr("IMEDIATA"),
						msgPA:      "IMEDIATA",
						msgKit:     "IMEDIATA",
					})
				}
				definirPai(0, "IMEDIATA", "IMEDIATA")
			case todosSemEstoque:
				for _, l := range grupo {
					p := ex.prazoFornecedor(l, domain.TipoPA)
					ex.emitir(domain.RegraEnvioImediato, l, emissao{
						estoquePA:  domain.IntPtr(1000),
						estoqueKit: domain.IntPtr(0),
						estoquePai: domain.IntPtr(0),
						dias:       domain.IntPtr(p),
						site:       domain.StrPtr(strconv.Itoa(p)),
						msgPA:      "INCLUIDO 1000 ESTOQUE SEG",
						msgKit:     fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", p),
					})
				}
				pmax := maiorPrazoFornecedor()
				definirPai(pmax, strconv.Itoa(pmax), fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", pmax))
			default:
				// misto: quem tem estoque vira imediata, quem não tem
				// recebe prazo de fornecedor; o pai vira imediata
				for _, l := range grupo {
					if l.EstoqueProduto <= 0 {
						p := ex.prazoFornecedor(l, domain.TipoPA)
						msg := fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", p)
						ex.emitir(domain.RegraEnvioImediato, l, emissao{
							estoquePA:  domain.IntPtr(0),
							estoqueKit: domain.IntPtr(0),
							estoquePai: domain.IntPtr(0),
							dias:       domain.IntPtr(p),
							site:       domain.StrPtr(strconv.Itoa(p)),
							msgPA:      msg,
							msgKit:     msg,
						})
					} else {
						ex.emitir(domain.RegraEnvioImediato, l, emissao{
							estoquePA:  domain.IntPtr(0),
							estoqueKit: domain.IntPtr(0),
							estoquePai: domain.IntPtr(0),
							dias:       domain.IntPtr(0),
							site:       domain.StrPtr("IMEDIATA"),
							msgPA:      "IMEDIATA",
							msgKit:     "IMEDIATA",
						})
					}
				}
				definirPai(0, "IMEDIATA", "IMEDIATA")
			}

		default:
			switch {
			case todosComEstoque:
				for _, l := range grupo {
					ex.emitir(domain.RegraEnvioImediato, l, emissao{
						estoquePA:  domain.IntPtr(0),
						estoqueKit: domain.IntPtr(0),
						estoquePai: domain.IntPtr(0),
						dias:       domain.IntPtr(1),
						site:       domain.StrPtr("1"),
						msgPA:      "PRAZO DEFINIDO 1 DIA",
						msgKit:     "PRAZO DEFINIDO 1 DIA",
					})
				}
				definirPai(1, "1", "PRAZO DEFINIDO 1 DIA")
			case todosSemEstoque:
				for _, l := range grupo {
					p := ex.prazoFornecedor(l, domain.TipoPA)
					ex.emitir(domain.RegraEnvioImediato, l, emissao{
						estoquePA:  domain.IntPtr(1000),
						estoqueKit: domain.IntPtr(0),
						estoquePai: domain.IntPtr(0),
						dias:       domain.IntPtr(p),
						site:       domain.StrPtr(strconv.Itoa(p)),
						msgPA:      "INCLUIDO 1000 ESTOQUE SEG",
						msgKit:     fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", p),
					})
				}
				pmax := maiorPrazoFornecedor()
				definirPai(pmax, strconv.Itoa(pmax), fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", pmax))
			default:
				for _, l := range grupo {
					if l.EstoqueProduto <= 0 {
						p := ex.prazoFornecedor(l, domain.TipoPA)
						msg := fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", p)
						ex.emitir(domain.RegraEnvioImediato, l, emissao{
							estoquePA:  domain.IntPtr(0),
							estoqueKit: domain.IntPtr(0),
							estoquePai: domain.IntPtr(0),
							dias:       domain.IntPtr(p),
							site:       domain.StrPtr(strconv.Itoa(p)),
							msgPA:      msg,
							msgKit:     msg,
						})
					} else {
						ex.emitir(domain.RegraEnvioImediato, l, emissao{
							estoquePA:  domain.IntPtr(0),
							estoqueKit: domain.IntPtr(0),
							estoquePai: domain.IntPtr(0),
							dias:       domain.IntPtr(1),
							site:       domain.StrPtr("1"),
							msgPA:      "PRAZO DEFINIDO 1 DIA",
							msgKit:     "PRAZO DEFINIDO 1 DIA",
						})
					}
				}
				definirPai(1, "1", "PRAZO DEFINIDO 1 DIA")
			}
		}
	}
}

// ========================================
// 4) NENHUM GRUPO
// ========================================

// regraNenhumGrupo move produtos sem grupo3 para ENVIO IMEDIATO (se na
// whitelist) ou OUTLET quando há estoque; sem estoque, aplica prazo de
// fornecedor com 1000 de estoque de segurança no PA.
func (ex *execucao) regraNenhumGrupo(linhas []domain.Linha) {
	for _, l := range linhas {
		if _, ok := l.Grupo3(); ok {
			continue
		}
		if l.CodbarraProduto == "" || strings.TrimSpace(l.FabricanteProduto) == "" {
			continue
		}
		marca := strings.ToUpper(strings.TrimSpace(l.FabricanteProduto))
		if _, ok := marcasIgnorarSemGrupo[marca]; ok {
			continue
		}
		if ex.travado(l.CodbarraProduto) {
			continue
		}

		if l.EstoqueProduto > 0 {
			destino := string(domain.RegraOutlet)
			msg := "MOVIDO PARA GRUPO3 OUTLET"
			if _, ok := ex.eng.whitelist[l.CodbarraProduto]; ok {
				destino = string(domain.RegraEnvioImediato)
				msg = "MOVIDO PARA GRUPO3 ENVIO IMEDIATO"
			}
			ex.emitir(domain.RegraNenhumGrupo, l, emissao{
				grupo3:     domain.StrPtr(destino),
				estoquePA:  domain.IntPtr(0),
				estoqueKit: domain.IntPtr(0),
				estoquePai: domain.IntPtr(0),
				dias:       domain.IntPtr(1),
				site:       domain.StrPtr("1"),
				msgPA:      msg,
				msgKit:     msg,
				msgPai:     msg,
			})
			continue
		}

		p := ex.prazoFornecedor(l, domain.TipoPA)
		msgPrazo := fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", p)
		ex.emitir(domain.RegraNenhumGrupo, l, emissao{
			estoquePA:  domain.IntPtr(1000),
			estoqueKit: domain.IntPtr(0),
			estoquePai: domain.IntPtr(0),
			dias:       domain.IntPtr(p),
			site:       domain.StrPtr(strconv.Itoa(p)),
			msgPA:      "INCLUIDO 1000 ESTOQUE SEG",
			msgKit:     msgPrazo,
			msgPai:     msgPrazo,
		})
	}
}

// ========================================
// 5) OUTLET
// ========================================

// regraOutlet define prazos por marca para os PAs do outlet com estoque
// e prazo de fornecedor para os sem estoque; o pai é decidido por grupo.
func (ex *execucao) regraOutlet() {
	for _, chavePai := range ex.ordemPais {
		var grupo []domain.Linha
		for _, l := range ex.porPai[chavePai] {
			g3, ok := l.Grupo3()
			if ok && g3 == string(domain.RegraOutlet) && l.CodbarraProduto != "" {
				grupo = append(grupo, l)
			}
		}
		if len(grupo) == 0 {
			continue
		}

		marcaGrupo := strings.ToUpper(strings.TrimSpace(grupo[0].FabricanteProduto))
		todosComEstoque := true
		algumSemEstoque := false
		for _, l := range grupo {
			if l.EstoqueProduto > 0 {
				continue
			}
			todosComEstoque = false
			algumSemEstoque = true
		}

		for _, l := range grupo {
			if l.EstoqueProduto <= 0 {
				p := ex.prazoFornecedor(l, domain.TipoPA)
				ex.emitir(domain.RegraOutlet, l, emissao{
					estoquePA:  domain.IntPtr(1000),
					estoqueKit: domain.IntPtr(0),
					estoquePai: domain.IntPtr(0),
					dias:       domain.IntPtr(p),
					site:       domain.StrPtr(strconv.Itoa(p)),
					msgPA:      "INCLUIDO 1000 ESTOQUE SEG",
					msgKit:     "INCLUIDO 0 ESTOQUE SEGURANÇA",
					semPai:     true,
				})
				continue
			}
			switch {
			case contemMarca(marcasOutletImediata, marcaGrupo):
				ex.emitir(domain.RegraOutlet, l, emissao{
					estoquePA:  domain.IntPtr(0),
					estoqueKit: domain.IntPtr(0),
					estoquePai: domain.IntPtr(0),
					dias:       domain.IntPtr(0),
					site:       domain.StrPtr("IMEDIATA"),
					msgPA:      "IMEDIATA",
					msgKit:     "IMEDIATA",
					semPai:     true,
				})
			case contemMarca(marcasOutlet3Dias, marcaGrupo):
				ex.emitir(domain.RegraOutlet, l, emissao{
					estoquePA:  domain.IntPtr(0),
					estoqueKit: domain.IntPtr(0),
					estoquePai: domain.IntPtr(0),
					dias:       domain.IntPtr(3),
					site:       domain.StrPtr("3"),
					msgPA:      "PRAZO DEFINIDO 3 DIAS",
					msgKit:     "PRAZO DEFINIDO 3 DIAS",
					semPai:     true,
				})
			default:
				ex.emitir(domain.RegraOutlet, l, emissao{
					estoquePA:  domain.IntPtr(0),
					estoqueKit: domain.IntPtr(0),
					estoquePai: domain.IntPtr(0),
					dias:       domain.IntPtr(1),
					site:       domain.StrPtr("1"),
					msgPA:      "PRAZO DEFINIDO 1 DIA",
					msgKit:     "PRAZO DEFINIDO 1 DIA",
					semPai:     true,
				})
			}
		}

		if chavePai == domain.SemPai {
			continue
		}

		definirPai := func(dias int, site, msg string) {
			if ex.travado(chavePai) {
				return
			}
			a := domain.Acao{Regra: domain.RegraOutlet, Tipo: domain.TipoPai, Codbarra: chavePai}
			a.DiasEntrega = domain.IntPtr(dias)
			a.SiteDisponibilidade = domain.StrPtr(site)
			a.EstoqueSeguranca = domain.IntPtr(0)
			a.Marca = grupo[0].FabricantePai
			a.Grupo3OrigemPA = string(domain.RegraOutlet)
			a.Mensagens = append(a.Mensagens, msg)
			ex.registrar(a)
			ex.travar(a.Codbarra, domain.RegraOutlet)
			ex.relatar(domain.RegraOutlet, a.Codbarra, a.Tipo, a.Marca, a.Grupo3OrigemPA, msg)
		}

		switch {
		case todosComEstoque:
			switch {
			case contemMarca(marcasOutletImediata, marcaGrupo):
				definirPai(0, "IMEDIATA", "IMEDIATA")
			case contemMarca(marcasOutlet3Dias, marcaGrupo):
				definirPai(3, "3", "PRAZO DEFINIDO 3 DIAS")
			default:
				definirPai(1, "1", "PRAZO DEFINIDO 1 DIA")
			}
		case algumSemEstoque:
			// prioriza o grupo do pai; na falta, o banco pela marca do pai
			maior := 0
			for _, l := range grupo {
				if p := ex.prazoFornecedor(l, domain.TipoPai); p > maior {
					maior = p
				}
			}
			definirPai(maior, strconv.Itoa(maior), fmt.Sprintf("PRAZO DEFINIDO %d DIAS (FORNECEDOR)", maior))
		}
	}
}

func contemMarca(conjunto map[string]struct{}, marca string) bool {
	_, ok := conjunto[marca]
	return ok
}
