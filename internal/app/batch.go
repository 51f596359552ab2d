package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	log "github.com/sirupsen/logrus"
)

// runBatch runs job for every input on a pool of workers and waits for all
// of them. Failures are logged and returned joined.
func runBatch(workers int, inputs []string, job func(input string) (string, error)) error {
	wp := workerpool.New(max(1, workers))
	var (
		mu   sync.Mutex
		errs []error
	)
	for _, input := range inputs {
		wp.Submit(func() {
			l := log.WithField("input", input)
			defer func() {
				if r := recover(); r != nil {
					l.WithField("recover", r).Error("job panicked")
					mu.Lock()
					errs = append(errs, fmt.Errorf("%s: %v", input, r))
					mu.Unlock()
				}
			}()

			start := time.Now()
			output, err := job(input)
			if err != nil {
				l.WithError(err).Error("job failed")
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", input, err))
				mu.Unlock()
				return
			}
			l.WithFields(log.Fields{
				"output":  output,
				"elapsed": time.Since(start),
			}).Info("done")
		})
	}
	wp.StopWait()
	return errors.Join(errs...)
}
