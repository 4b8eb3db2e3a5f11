package domain

import "strconv"

// Categoria é um nó da árvore de categorias do site.
type Categoria struct {
	ID     int
	Nome   string
	Status string
	Filhos []int
}

// ArvoreCategorias guarda os nós indexados por ID com as raízes em ordem.
// A travessia é iterativa para suportar árvores profundas sem recursão.
type ArvoreCategorias struct {
	nos    map[int]Categoria
	raizes []int
}

// NovaArvoreCategorias cria uma árvore vazia.
func NovaArvoreCategorias() *ArvoreCategorias {
	return &ArvoreCategorias{nos: make(map[int]Categoria)}
}

// Adicionar registra um nó; raiz indica se ele entra no primeiro nível.
func (a *ArvoreCategorias) Adicionar(cat Categoria, raiz bool) {
	a.nos[cat.ID] = cat
	if raiz {
		a.raizes = append(a.raizes, cat.ID)
	}
}

// Buscar localiza uma categoria pelo ID.
func (a *ArvoreCategorias) Buscar(id int) (Categoria, bool) {
	cat, ok := a.nos[id]
	return cat, ok
}

// Len retorna o total de categorias carregadas.
func (a *ArvoreCategorias) Len() int {
	return len(a.nos)
}

// Raizes devolve os IDs do primeiro nível na ordem de carga.
func (a *ArvoreCategorias) Raizes() []int {
	return a.raizes
}

// CaminhoAscendente devolve os IDs da raiz até a categoria alvo, como texto,
// na ordem usada pela aba LOJA WEB. Retorna nil quando o ID não existe.
func (a *ArvoreCategorias) CaminhoAscendente(id int) []string {
	if _, ok := a.nos[id]; !ok {
		return nil
	}

	type quadro struct {
		id      int
		caminho []int
	}

	pilha := make([]quadro, 0, len(a.raizes))
	for i := len(a.raizes) - 1; i >= 0; i-- {
		pilha = append(pilha, quadro{id: a.raizes[i]})
	}

	for len(pilha) > 0 {
		topo := pilha[len(pilha)-1]
		pilha = pilha[:len(pilha)-1]

		caminho := append(append([]int{}, topo.caminho...), topo.id)
		if topo.id == id {
			ids := make([]string, len(caminho))
			for i, n := range caminho {
				ids[i] = strconv.Itoa(n)
			}
			return ids
		}

		no, ok := a.nos[topo.id]
		if !ok {
			continue
		}
		for i := len(no.Filhos) - 1; i >= 0; i-- {
			pilha = append(pilha, quadro{id: no.Filhos[i], caminho: caminho})
		}
	}
	return nil
}
