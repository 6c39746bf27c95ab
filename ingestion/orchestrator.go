// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"
)

const (
	// DefaultPoolSize is the number of concurrent reasoning-service calls.
	DefaultPoolSize = 20

	// MaxPoolSize is the largest accepted pool size.
	MaxPoolSize = 256
)

// Orchestrator runs batches of blocking calls on a bounded worker pool.
type Orchestrator struct {
	pool   *ants.Pool
	logger *slog.Logger
}

type antsLoggerAdapter struct {
	logger *slog.Logger
}

var _ ants.Logger = (*antsLoggerAdapter)(nil)

func (al *antsLoggerAdapter) Printf(format string, args ...any) {
	al.logger.Warn(fmt.Sprintf(format, args...))
}

// NewOrchestrator creates an orchestrator with size workers.
func NewOrchestrator(size int, logger *slog.Logger) (*Orchestrator, error) {
	if size < 1 || size > MaxPoolSize {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidPoolSize, size, MaxPoolSize)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "orchestrator")

	pool, err := ants.NewPool(size, ants.WithLogger(&antsLoggerAdapter{logger: logger}))
	if err != nil {
		return nil, err
	}
	return &Orchestrator{pool: pool, logger: logger}, nil
}

// Size returns the number of workers.
func (o *Orchestrator) Size() int {
	return o.pool.Cap()
}

// Release stops the workers. The orchestrator must not be used afterwards.
func (o *Orchestrator) Release() {
	o.pool.Release()
}

// Map applies fn to every input on the orchestrator's pool and blocks until
// all calls return. out[i] is fn's result for inputs[i]. A call that panics,
// or that had not started when ctx was cancelled, leaves the zero value in
// its slot.
func Map[In, Out any](ctx context.Context, o *Orchestrator, inputs []In, fn func(context.Context, In) Out) []Out {
	out := make([]Out, len(inputs))
	var wg sync.WaitGroup

	for i, in := range inputs {
		wg.Add(1)
		err := o.pool.Submit(func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("task panicked", "index", i, "panic", r)
				}
			}()
			if ctx.Err() != nil {
				return
			}
			out[i] = fn(ctx, in)
		})
		if err != nil {
			wg.Done()
			o.logger.Error("task not submitted", "index", i, "err", err)
		}
	}

	wg.Wait()
	return out
}
