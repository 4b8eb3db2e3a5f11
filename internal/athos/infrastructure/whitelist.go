package infrastructure

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	shareddomain "catalogprep/internal/shared/domain"
)

// Colunas candidatas para o código de barras na whitelist, na ordem de
// preferência.
var colunasWhitelist = []string{
	"cod barra",
	"codbarras",
	"codbarra",
	"ean",
	"código de barras",
	"codigo de barras",
}

// Whitelist é o conjunto de EANs autorizados no grupo3 ENVIO IMEDIATO,
// mais as estatísticas da carga.
type Whitelist struct {
	Caminho             string
	EANs                map[string]struct{}
	TotalLinhas         int
	Validos             int
	DuplicadosIgnorados int
	InvalidosIgnorados  int
	ColunaDetectada     string
}

// Contem responde se o EAN (já normalizado) está na whitelist.
func (w Whitelist) Contem(ean string) bool {
	_, ok := w.EANs[ean]
	return ok
}

// CarregarWhitelist lê a whitelist de imediatos de um CSV (com detecção
// da coluna de EAN) ou de um TXT com um código por linha. Os EANs são
// normalizados e deduplicados.
func CarregarWhitelist(caminho string) (Whitelist, error) {
	if _, err := os.Stat(caminho); err != nil {
		return Whitelist{}, fmt.Errorf("whitelist não encontrada: %w", err)
	}
	if strings.EqualFold(filepath.Ext(caminho), ".csv") {
		return carregarWhitelistCSV(caminho)
	}
	return carregarWhitelistTexto(caminho)
}

func carregarWhitelistTexto(caminho string) (Whitelist, error) {
	arq, err := os.Open(caminho)
	if err != nil {
		return Whitelist{}, fmt.Errorf("abrir whitelist: %w", err)
	}
	defer arq.Close()

	wl := Whitelist{Caminho: caminho, EANs: map[string]struct{}{}}
	leitor := bufio.NewScanner(arq)
	for leitor.Scan() {
		wl.TotalLinhas++
		wl.adicionar(leitor.Text())
	}
	if err := leitor.Err(); err != nil {
		return Whitelist{}, fmt.Errorf("ler whitelist: %w", err)
	}
	wl.Validos = len(wl.EANs)
	return wl, nil
}

func carregarWhitelistCSV(caminho string) (Whitelist, error) {
	arq, err := os.Open(caminho)
	if err != nil {
		return Whitelist{}, fmt.Errorf("abrir whitelist: %w", err)
	}
	defer arq.Close()

	leitor := csv.NewReader(arq)
	leitor.Comma = ';'
	leitor.FieldsPerRecord = -1
	registros, err := leitor.ReadAll()
	if err != nil {
		// segunda tentativa com vírgula
		if _, sErr := arq.Seek(0, 0); sErr != nil {
			return Whitelist{}, fmt.Errorf("ler whitelist: %w", err)
		}
		leitor = csv.NewReader(arq)
		leitor.Comma = ','
		leitor.FieldsPerRecord = -1
		registros, err = leitor.ReadAll()
		if err != nil {
			return Whitelist{}, fmt.Errorf("ler whitelist: %w", err)
		}
	}
	if len(registros) == 0 {
		return Whitelist{}, fmt.Errorf("whitelist vazia: %s", caminho)
	}

	cabecalho := registros[0]
	indice, nome := detectarColunaEAN(cabecalho)
	if indice < 0 {
		if len(cabecalho) == 1 {
			indice, nome = 0, cabecalho[0]
		} else {
			return Whitelist{}, fmt.Errorf("coluna de EAN não detectada na whitelist: %v", cabecalho)
		}
	}

	wl := Whitelist{Caminho: caminho, EANs: map[string]struct{}{}, ColunaDetectada: nome}
	for _, registro := range registros[1:] {
		wl.TotalLinhas++
		if indice >= len(registro) {
			wl.InvalidosIgnorados++
			continue
		}
		wl.adicionar(registro[indice])
	}
	wl.Validos = len(wl.EANs)
	return wl, nil
}

func (w *Whitelist) adicionar(valor string) {
	ean := shareddomain.NormalizarEAN(valor)
	if ean == "" {
		w.InvalidosIgnorados++
		return
	}
	if _, ok := w.EANs[ean]; ok {
		w.DuplicadosIgnorados++
		return
	}
	w.EANs[ean] = struct{}{}
}

// detectarColunaEAN procura a coluna pelos nomes candidatos e, na falta,
// aceita qualquer cabeçalho que contenha "barra" ou "ean".
func detectarColunaEAN(cabecalho []string) (int, string) {
	normalizados := make([]string, len(cabecalho))
	for i, c := range cabecalho {
		normalizados[i] = strings.ToLower(strings.TrimSpace(c))
	}
	for _, candidata := range colunasWhitelist {
		for i, c := range normalizados {
			if c == candidata {
				return i, cabecalho[i]
			}
		}
	}
	for i, c := range normalizados {
		if strings.Contains(c, "barra") || strings.Contains(c, "ean") {
			return i, cabecalho[i]
		}
	}
	return -1, ""
}
