package shapetoolbox

import "fmt"

// Job is one unit of batch work, typically building and exporting a model.
type Job struct {
	Name string
	Run  func() error
}

// Batch runs jobs sequentially with per-item error isolation. With
// IgnoreErrors set, failures are recorded and the remaining jobs still
// run; otherwise the first failure aborts the batch.
type Batch struct {
	IgnoreErrors bool

	failures []error
}

// Run executes the jobs in order. It returns the first error unless
// IgnoreErrors is set, in which case it always returns nil and failures
// are retrievable from [Batch.Failures].
func (b *Batch) Run(jobs ...Job) error {
	for _, job := range jobs {
		err := job.Run()
		if err == nil {
			continue
		}
		err = fmt.Errorf("job %q: %w", job.Name, err)
		if !b.IgnoreErrors {
			return err
		}
		b.failures = append(b.failures, err)
	}
	return nil
}

// Failures returns the errors recorded while running with IgnoreErrors.
func (b *Batch) Failures() []error { return b.failures }
