/*
Copyright 2024 The KodeRover Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package exporter

import (
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/koderover/tm4j-adapter/pkg/tool/log"
)

// Summary is the end-of-run counters object every export logs.
type Summary struct {
	FilesRead    int
	ResultsFound int
	Exported     int
	Failed       int
}

func (s *Summary) Log() {
	log.Infof("files read: %d, results found: %d, exported: %d, failed: %d",
		s.FilesRead, s.ResultsFound, s.Exported, s.Failed)
}

// Engine posts a batch of items through a single-item post function,
// serially or over a bounded worker pool. Export is at-least-once and
// best-effort: failed items are resubmitted as a shrinking batch until
// every item lands or a round makes no progress.
type Engine[T any] struct {
	// Workers bounds the concurrent pool; values below 1 mean serial.
	Workers int
	Post    func(item T) error
}

// Export drives the whole batch to convergence and returns the items that
// never landed, for the caller's recovery hook.
func (e *Engine[T]) Export(items []T, summary *Summary) []T {
	summary.ResultsFound = len(items)
	log.Infof("exporting %d results", len(items))
	start := time.Now()

	remaining := items
	for len(remaining) > 0 {
		failed, errs := e.runBatch(remaining)
		summary.Exported += len(remaining) - len(failed)
		if len(failed) == 0 {
			remaining = nil
			break
		}
		if len(failed) == len(remaining) {
			// no progress: every resubmission would fail the same way
			log.Errorf("exceptions do not converge, giving up on %d results: %v", len(failed), errs)
			remaining = failed
			break
		}
		log.Infof("retrying to post %d results", len(failed))
		remaining = failed
	}

	summary.Failed = len(remaining)
	log.Infof("posting results took %.2f seconds", time.Since(start).Seconds())
	if summary.Failed > 0 {
		log.Errorf("export has some errors: %d results were in report, but %d were not posted",
			summary.ResultsFound, summary.Failed)
	} else {
		log.Info("execution results posted successfully")
	}
	summary.Log()
	return remaining
}

// runBatch posts every item once and partitions the batch into landed and
// failed. Order within the returned failure list follows submission order.
func (e *Engine[T]) runBatch(items []T) ([]T, error) {
	if e.Workers <= 1 {
		var failed []T
		var errs error
		for _, item := range items {
			if err := e.Post(item); err != nil {
				log.Errorf("export error: %v", err)
				failed = append(failed, item)
				errs = multierror.Append(errs, err)
			}
		}
		return failed, errs
	}

	var mu sync.Mutex
	failedSet := make(map[int]error, len(items))

	g := new(errgroup.Group)
	g.SetLimit(e.Workers)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := e.Post(item); err != nil {
				mu.Lock()
				failedSet[i] = err
				mu.Unlock()
			}
			// errors are collected, never propagated: one failure must not
			// cancel the remaining posts
			return nil
		})
	}
	_ = g.Wait()

	var failed []T
	var errs error
	for i, item := range items {
		if err, ok := failedSet[i]; ok {
			log.Errorf("export error: %v", err)
			failed = append(failed, item)
			errs = multierror.Append(errs, err)
		}
	}
	log.Infof("posted %d results", len(items)-len(failed))
	return failed, errs
}
