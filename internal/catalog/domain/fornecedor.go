package domain

// Fornecedor é um registro do banco local de fornecedores.
type Fornecedor struct {
	ID        int64
	Nome      string
	Codigo    int64
	PrazoDias int
}
