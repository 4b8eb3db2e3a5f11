package domain

import (
	"errors"
	"fmt"
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"

	shareddomain "catalogprep/internal/shared/domain"
)

// Erros de configuração da cubagem.
var (
	ErrComprimentoFixoInvalido = errors.New("comprimento fixo deve ser maior que zero")
	ErrFatorCubagemInvalido    = errors.New("fator de cubagem deve ser maior que zero")
)

// Caixa representa uma embalagem individual declarada na descrição do produto.
// A ordem altura, largura, profundidade segue a ordem de escrita na descrição.
type Caixa struct {
	AlturaCm       float64
	LarguraCm      float64
	ProfundidadeCm float64
}

// VolumeCm3 retorna o volume da caixa em centímetros cúbicos.
func (c Caixa) VolumeCm3() float64 {
	return c.AlturaCm * c.LarguraCm * c.ProfundidadeCm
}

// Opcoes parametriza a consolidação das caixas em uma embalagem única.
type Opcoes struct {
	ComprimentoFixoCm    float64
	Metodo               shareddomain.MetodoArredondamento
	CasasDecimais        int
	FolgaCm              float64
	FolgaNoComprimento   bool
	FatorCubagemKgPorM3  float64
}

// OpcoesPadrao retorna os parâmetros usados na operação normal.
func OpcoesPadrao() Opcoes {
	return Opcoes{
		ComprimentoFixoCm:   101,
		Metodo:              shareddomain.ArredondaParaCima,
		CasasDecimais:       1,
		FolgaCm:             3,
		FolgaNoComprimento:  false,
		FatorCubagemKgPorM3: 300,
	}
}

// Folga e casas decimais aceitam zero; só os campos onde zero é inválido
// ganham padrão.
func (o Opcoes) comPadroes() Opcoes {
	p := OpcoesPadrao()
	if o.ComprimentoFixoCm == 0 {
		o.ComprimentoFixoCm = p.ComprimentoFixoCm
	}
	if o.Metodo == "" {
		o.Metodo = p.Metodo
	}
	if o.FatorCubagemKgPorM3 == 0 {
		o.FatorCubagemKgPorM3 = p.FatorCubagemKgPorM3
	}
	return o
}

// Resultado reúne dimensões e pesos derivados da descrição de um produto.
type Resultado struct {
	AlturaCm      float64
	LarguraCm     float64
	ComprimentoCm float64

	PesoBrutoKg   float64
	PesoCubadoKg  float64
	PesoTaxavelKg float64

	VolumeTotalM3     float64
	VolumeEmbalagemM3 float64

	CaixasEncontradas int
	QtdeVolume        int
	Avisos            []string
}

var (
	reTags     = regexp.MustCompile(`(?s)<[^>]+>`)
	reEspacos  = regexp.MustCompile(`\s+`)
	reCaixa    = regexp.MustCompile(`(?i)caixa\s*\d+\s*[:\-]?\s*([\d.,]+)\s*(?:cm)?\s*[x×]\s*([\d.,]+)\s*(?:cm)?\s*[x×]\s*([\d.,]+)\s*(?:cm)?`)
	reNumCaixa = regexp.MustCompile(`(?i)caixa\s*(\d+)\s*[:\-]`)

	reSecaoEmbalagem = regexp.MustCompile(`(?is)medidas?\s+das?\s+(?:embalagens?|caixas?)\s*[:\-]?(.+)`)

	rePesos = []*regexp.Regexp{
		regexp.MustCompile(`(?i)peso\s+total\s+aproximado\s*[:\-]?\s*([\d.,]+)\s*kg`),
		regexp.MustCompile(`(?i)peso\s+total\s*[:\-]?\s*([\d.,]+)\s*kg`),
		regexp.MustCompile(`(?i)peso\s*[:\-]?\s*([\d.,]+)\s*kg`),
		regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*kg`),
	}

	reVolumesDeclarados = []*regexp.Regexp{
		regexp.MustCompile(`(?i)quantidade\s+de\s+volumes?\s*[:\-]?\s*(\d+)\s*(?:caixas?|volumes?)`),
		regexp.MustCompile(`(?i)qtde\.?\s+(?:de\s+)?volumes?\s*[:\-]?\s*(\d+)\s*(?:caixas?|volumes?)?`),
	}
)

// LimparMarcacao remove tags HTML, decodifica entidades e colapsa espaços.
func LimparMarcacao(descricao string) string {
	if descricao == "" {
		return ""
	}
	texto := reTags.ReplaceAllString(descricao, " ")
	texto = html.UnescapeString(texto)
	return strings.TrimSpace(reEspacos.ReplaceAllString(texto, " "))
}

// ExtrairCaixas localiza todas as declarações "Caixa N: A x L x P" no texto.
func ExtrairCaixas(texto string) []Caixa {
	var caixas []Caixa
	for _, m := range reCaixa.FindAllStringSubmatch(texto, -1) {
		altura, errA := shareddomain.ParseNumeroLocale(m[1])
		largura, errL := shareddomain.ParseNumeroLocale(m[2])
		profundidade, errP := shareddomain.ParseNumeroLocale(m[3])
		if errA != nil || errL != nil || errP != nil {
			continue
		}
		caixas = append(caixas, Caixa{
			AlturaCm:       altura,
			LarguraCm:      largura,
			ProfundidadeCm: profundidade,
		})
	}
	return caixas
}

// ExtrairPesoTotal procura o peso bruto, priorizando a seção de medidas
// das embalagens antes de cair para o texto inteiro.
func ExtrairPesoTotal(texto string) (float64, bool) {
	if secao := reSecaoEmbalagem.FindStringSubmatch(texto); secao != nil {
		if v, ok := pesoEmTexto(secao[1]); ok {
			return v, true
		}
	}
	return pesoEmTexto(texto)
}

func pesoEmTexto(texto string) (float64, bool) {
	for _, re := range rePesos {
		if m := re.FindStringSubmatch(texto); m != nil {
			if v, err := shareddomain.ParseNumeroLocale(m[1]); err == nil && v > 0 {
				return v, true
			}
		}
	}
	return 0, false
}

// ExtrairQtdeVolumes cruza a quantidade declarada de volumes com a contagem
// de rótulos "Caixa N" distintos. Em caso de conflito a contagem prevalece
// e um aviso é devolvido.
func ExtrairQtdeVolumes(texto string) (int, bool, string) {
	declarada := 0
	for _, re := range reVolumesDeclarados {
		if m := re.FindStringSubmatch(texto); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
				declarada = v
				break
			}
		}
	}

	rotulos := make(map[string]struct{})
	for _, m := range reNumCaixa.FindAllStringSubmatch(texto, -1) {
		rotulos[m[1]] = struct{}{}
	}
	contada := len(rotulos)

	switch {
	case declarada > 0 && contada > 0 && declarada != contada:
		aviso := fmt.Sprintf("quantidade de volumes declarada (%d) difere da contagem de caixas (%d); usando a contagem", declarada, contada)
		return contada, true, aviso
	case contada > 0:
		return contada, true, ""
	case declarada > 0:
		return declarada, true, ""
	default:
		return 0, false, ""
	}
}

// Consolidar soma os volumes das caixas e deriva uma embalagem única de
// comprimento fixo e seção quadrada, com folga e arredondamento aplicados.
func Consolidar(caixas []Caixa, op Opcoes) (altura, largura, comprimento, volumeEmbalagemM3, volumeTotalM3 float64, err error) {
	op = op.comPadroes()
	if op.ComprimentoFixoCm <= 0 {
		return 0, 0, 0, 0, 0, ErrComprimentoFixoInvalido
	}

	volumeTotalCm3 := 0.0
	for _, caixa := range caixas {
		volumeTotalCm3 += caixa.VolumeCm3()
	}

	lado := math.Sqrt(volumeTotalCm3 / op.ComprimentoFixoCm)

	altura = lado + op.FolgaCm
	largura = lado + op.FolgaCm
	comprimento = op.ComprimentoFixoCm
	if op.FolgaNoComprimento {
		comprimento += op.FolgaCm
	}

	altura = shareddomain.Arredondar(altura, op.Metodo, op.CasasDecimais)
	largura = shareddomain.Arredondar(largura, op.Metodo, op.CasasDecimais)
	comprimento = shareddomain.Arredondar(comprimento, op.Metodo, op.CasasDecimais)

	volumeEmbalagemM3 = altura * largura * comprimento / 1e6
	volumeTotalM3 = volumeTotalCm3 / 1e6
	return altura, largura, comprimento, volumeEmbalagemM3, volumeTotalM3, nil
}

// PesoCubado converte volume em peso pelo fator de cubagem da transportadora.
func PesoCubado(volumeM3, fatorKgPorM3 float64) (float64, error) {
	if fatorKgPorM3 <= 0 {
		return 0, ErrFatorCubagemInvalido
	}
	return volumeM3 * fatorKgPorM3, nil
}

// DerivarEmbalagem interpreta a descrição HTML de um produto e produz as
// dimensões e pesos finais de expedição.
func DerivarEmbalagem(descricaoHTML string, op Opcoes) (Resultado, error) {
	op = op.comPadroes()
	var r Resultado

	texto := LimparMarcacao(descricaoHTML)
	if texto == "" {
		return r, nil
	}

	qtde, qtdeOK, avisoQtde := ExtrairQtdeVolumes(texto)
	if qtdeOK {
		r.QtdeVolume = qtde
	}
	if avisoQtde != "" {
		r.Avisos = append(r.Avisos, avisoQtde)
	}

	if peso, ok := ExtrairPesoTotal(texto); ok {
		r.PesoBrutoKg = peso
	}

	caixas := ExtrairCaixas(texto)
	r.CaixasEncontradas = len(caixas)

	switch {
	case len(caixas) == 1 && (!qtdeOK || qtde == 1):
		// Volume único declarado: repassa as medidas sem consolidar.
		r.AlturaCm = caixas[0].AlturaCm
		r.LarguraCm = caixas[0].LarguraCm
		r.ComprimentoCm = caixas[0].ProfundidadeCm
		r.VolumeTotalM3 = caixas[0].VolumeCm3() / 1e6
		r.VolumeEmbalagemM3 = r.VolumeTotalM3
	case len(caixas) == 0:
		// Sem medidas na descrição: mantém apenas peso e quantidade.
	default:
		altura, largura, comprimento, volEmb, volTotal, err := Consolidar(caixas, op)
		if err != nil {
			return Resultado{}, err
		}
		r.AlturaCm = altura
		r.LarguraCm = largura
		r.ComprimentoCm = comprimento
		r.VolumeEmbalagemM3 = volEmb
		r.VolumeTotalM3 = volTotal
	}

	if r.VolumeEmbalagemM3 > 0 {
		cubado, err := PesoCubado(r.VolumeEmbalagemM3, op.FatorCubagemKgPorM3)
		if err != nil {
			return Resultado{}, err
		}
		r.PesoCubadoKg = cubado
	}
	r.PesoTaxavelKg = math.Max(r.PesoBrutoKg, r.PesoCubadoKg)

	return r, nil
}
