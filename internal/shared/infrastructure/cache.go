package infrastructure

import (
	"sync"
	"time"
)

// entradaCache guarda um valor com instante de expiração.
type entradaCache struct {
	valor    interface{}
	expiraEm time.Time
}

func (e entradaCache) expirada() bool {
	return time.Now().After(e.expiraEm)
}

// Cache abstrai um cache chave/valor com TTL.
type Cache interface {
	Get(chave string) (interface{}, bool)
	Set(chave string, valor interface{}, ttl time.Duration)
	Delete(chave string)
	Clear()
	Has(chave string) bool
}

// InMemoryCache implementação em memória do cache com TTL e limpeza periódica.
type InMemoryCache struct {
	mu       sync.RWMutex
	entradas map[string]entradaCache
}

// NewInMemoryCache cria um cache em memória e inicia a rotina de limpeza.
func NewInMemoryCache() *InMemoryCache {
	cache := &InMemoryCache{
		entradas: make(map[string]entradaCache),
	}
	go cache.limparExpiradas()
	return cache
}

// Get recupera um valor não expirado do cache.
func (c *InMemoryCache) Get(chave string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entrada, existe := c.entradas[chave]
	if !existe || entrada.expirada() {
		return nil, false
	}
	return entrada.valor, true
}

// Set grava ou atualiza um valor no cache.
func (c *InMemoryCache) Set(chave string, valor interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entradas[chave] = entradaCache{
		valor:    valor,
		expiraEm: time.Now().Add(ttl),
	}
}

// Delete remove uma entrada do cache.
func (c *InMemoryCache) Delete(chave string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entradas, chave)
}

// Clear esvazia o cache por completo.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entradas = make(map[string]entradaCache)
}

// Has verifica se uma chave existe e não expirou.
func (c *InMemoryCache) Has(chave string) bool {
	_, existe := c.Get(chave)
	return existe
}

// limparExpiradas remove periodicamente as entradas vencidas.
func (c *InMemoryCache) limparExpiradas() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for chave, entrada := range c.entradas {
			if entrada.expirada() {
				delete(c.entradas, chave)
			}
		}
		c.mu.Unlock()
	}
}
