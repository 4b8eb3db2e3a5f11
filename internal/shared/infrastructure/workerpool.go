package infrastructure

import (
	"context"
	"fmt"
	"sync"
)

// Task representa uma tarefa a ser executada pelo pool.
type Task func() error

// WorkerPool gerencia um conjunto de workers que consomem tarefas em paralelo.
type WorkerPool struct {
	workerCount int
	tarefas     chan Task
	erros       chan error
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewWorkerPool cria um pool com o número indicado de workers.
func NewWorkerPool(workerCount int) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workerCount: workerCount,
		tarefas:     make(chan Task, workerCount*2),
		erros:       make(chan error, workerCount),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// worker é a rotina de consumo das tarefas.
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.ctx.Done():
			return
		case tarefa, ok := <-wp.tarefas:
			if !ok {
				return
			}
			if err := tarefa(); err != nil {
				select {
				case wp.erros <- err:
				default:
					// canal de erros cheio, descarta
				}
			}
		}
	}
}

// Start dispara os workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Submit envia uma tarefa para o pool.
func (wp *WorkerPool) Submit(tarefa Task) error {
	select {
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool encerrado")
	case wp.tarefas <- tarefa:
		return nil
	}
}

// Wait fecha o canal de tarefas e aguarda o término dos workers.
func (wp *WorkerPool) Wait() {
	close(wp.tarefas)
	wp.wg.Wait()
}

// Stop interrompe o pool imediatamente.
func (wp *WorkerPool) Stop() {
	wp.cancel()
	wp.wg.Wait()
}

// Errors expõe o canal de erros acumulados.
func (wp *WorkerPool) Errors() <-chan error {
	return wp.erros
}
