package infrastructure

import (
	"errors"
	"sync/atomic"
	"testing"
)

// ========================================
// Tests: WorkerPool
// ========================================

// TestWorkerPool_ExecutaTodasAsTarefas testa que Wait espera o consumo completo
func TestWorkerPool_ExecutaTodasAsTarefas(t *testing.T) {
	wp := NewWorkerPool(4)
	wp.Start()

	var executadas int64
	for i := 0; i < 100; i++ {
		if err := wp.Submit(func() error {
			atomic.AddInt64(&executadas, 1)
			return nil
		}); err != nil {
			t.Fatalf("Submit falhou: %v", err)
		}
	}
	wp.Wait()

	if executadas != 100 {
		t.Errorf("esperado 100 tarefas executadas, obtido %d", executadas)
	}
}

// TestWorkerPool_PropagaErros testa que erros das tarefas ficam disponíveis
func TestWorkerPool_PropagaErros(t *testing.T) {
	wp := NewWorkerPool(2)
	wp.Start()

	errTarefa := errors.New("falha na escrita")
	_ = wp.Submit(func() error { return errTarefa })
	_ = wp.Submit(func() error { return nil })
	wp.Wait()

	select {
	case err := <-wp.Errors():
		if !errors.Is(err, errTarefa) {
			t.Errorf("erro inesperado: %v", err)
		}
	default:
		t.Error("esperado um erro no canal")
	}
}

// TestWorkerPool_SubmitDepoisDeStop testa a recusa de tarefas após Stop
func TestWorkerPool_SubmitDepoisDeStop(t *testing.T) {
	wp := NewWorkerPool(2)
	wp.Start()
	wp.Stop()

	if err := wp.Submit(func() error { return nil }); err == nil {
		t.Error("Submit deveria falhar após Stop")
	}
}

// ========================================
// Benchmarks: WorkerPool
// ========================================

// BenchmarkWorkerPool_4Workers_TarefasRapidas mede o overhead com 4 workers
func BenchmarkWorkerPool_4Workers_TarefasRapidas(b *testing.B) {
	wp := NewWorkerPool(4)
	wp.Start()
	defer wp.Stop()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = wp.Submit(func() error {
			sum := 0
			for j := 0; j < 10; j++ {
				sum += j
			}
			_ = sum
			return nil
		})
	}
}
