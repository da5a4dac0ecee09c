package work

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestNewWorkerPoolValidation(t *testing.T) {
	tests := []struct {
		name        string
		numWorkers  int
		channelSize int
		wantErr     error
	}{
		{"valid", 3, 10, nil},
		{"zero workers", 0, 10, ErrInvalidWorkerCount},
		{"negative workers", -1, 10, ErrInvalidWorkerCount},
		{"negative channel", 3, -1, ErrInvalidChannelSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWorkerPool[int](tt.numWorkers, tt.channelSize)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewWorkerPool(%d, %d) error = %v, want %v", tt.numWorkers, tt.channelSize, err, tt.wantErr)
			}
		})
	}
}

func TestPoolExecutesAllTasks(t *testing.T) {
	pool, err := NewWorkerPool[int](3, 20)
	if err != nil {
		t.Fatalf("NewWorkerPool: %v", err)
	}

	ctx := context.Background()
	pool.Start(ctx, "test-pool")

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range pool.Results() {
			if result.Error != nil {
				t.Errorf("task %s failed: %v", result.TaskID, result.Error)
				continue
			}
			mu.Lock()
			got = append(got, result.Result)
			mu.Unlock()
		}
	}()

	for i := 0; i < 10; i++ {
		i := i
		task := MustNewTask(func(ctx context.Context) (int, error) {
			return i * 2, nil
		})
		if err := pool.AddTask(ctx, task); err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}

	pool.Stop()
	wg.Wait()

	if len(got) != 10 {
		t.Fatalf("got %d results, want 10", len(got))
	}
	sort.Ints(got)
	for i, v := range got {
		if v != i*2 {
			t.Errorf("result[%d] = %d, want %d", i, v, i*2)
		}
	}
}

func TestTaskTimeout(t *testing.T) {
	pool, err := NewWorkerPoolWithConfig[struct{}](PoolConfig{
		NumWorkers:      1,
		TaskChannelSize: 1,
	})
	if err != nil {
		t.Fatalf("NewWorkerPoolWithConfig: %v", err)
	}

	ctx := context.Background()
	pool.Start(ctx, "timeout-pool")

	task := MustNewTask(func(ctx context.Context) (struct{}, error) {
		select {
		case <-time.After(5 * time.Second):
			return struct{}{}, nil
		case <-ctx.Done():
			return struct{}{}, ctx.Err()
		}
	}, WithTimeout[struct{}](50*time.Millisecond))

	if err := pool.AddTask(ctx, task); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	result := <-pool.Results()
	if !errors.Is(result.Error, ErrTaskTimeout) {
		t.Errorf("result.Error = %v, want %v", result.Error, ErrTaskTimeout)
	}

	pool.Stop()
}

func TestAddTaskAfterStop(t *testing.T) {
	pool, err := NewWorkerPool[int](1, 1)
	if err != nil {
		t.Fatalf("NewWorkerPool: %v", err)
	}

	ctx := context.Background()
	pool.Start(ctx, "stopped-pool")
	pool.Stop()

	task := MustNewTask(func(ctx context.Context) (int, error) {
		return 0, nil
	})
	if err := pool.AddTask(ctx, task); !errors.Is(err, ErrPoolStopped) {
		t.Errorf("AddTask after Stop = %v, want %v", err, ErrPoolStopped)
	}
}

func TestTaskErrorHandler(t *testing.T) {
	pool, err := NewWorkerPool[int](1, 1)
	if err != nil {
		t.Fatalf("NewWorkerPool: %v", err)
	}

	ctx := context.Background()
	pool.Start(ctx, "error-pool")

	wantErr := errors.New("scrape failed")
	handled := make(chan error, 1)
	task := MustNewTask(func(ctx context.Context) (int, error) {
		return 0, wantErr
	}, WithID[int]("failing-task"), WithErrorHandler[int](func(err error) {
		handled <- err
	}))

	if err := pool.AddTask(ctx, task); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	result := <-pool.Results()
	if result.TaskID != "failing-task" {
		t.Errorf("TaskID = %q, want %q", result.TaskID, "failing-task")
	}
	if !errors.Is(result.Error, wantErr) {
		t.Errorf("result.Error = %v, want %v", result.Error, wantErr)
	}

	select {
	case err := <-handled:
		if !errors.Is(err, wantErr) {
			t.Errorf("handler error = %v, want %v", err, wantErr)
		}
	case <-time.After(time.Second):
		t.Error("error handler was not called")
	}

	pool.Stop()
}
