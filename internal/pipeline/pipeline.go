package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/linkwalk/internal/model"
)

// Job is the state one grab accumulates while passing through the steps.
type Job struct {
	// URL is the page to grab.
	URL string

	// Document is the fetched page, set by FetchStep.
	Document *model.Document

	// SavedAs is the path the page was written to, empty if saving failed.
	SavedAs string

	// SaveError is the page save failure, if any. It does not stop the job.
	SaveError error

	// Page is the extraction result, set by ExtractStep.
	Page *model.Page

	// Results holds one entry per image, in page order.
	Results []Result

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string

	// Error is the error of the step that stopped the job.
	Error error

	// Cancelled is set when the context ended before all steps ran.
	Cancelled bool
}

// NewJob creates a Job for rawURL.
func NewJob(rawURL string) *Job {
	return &Job{URL: rawURL}
}

// Downloaded returns the number of images written successfully.
func (j *Job) Downloaded() int {
	n := 0
	for _, r := range j.Results {
		if r.Err == nil && r.Download != nil {
			n++
		}
	}
	return n
}

// Step is one stage of a grab.
type Step interface {
	// Do runs the step. Failures that should not stop the job are recorded
	// in the Job and Do returns nil.
	Do(ctx context.Context, job *Job) error

	// Name identifies the step in logs and in Job.PerformedSteps.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps running the remaining steps after a failure.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to run the remaining steps
// after one fails. The first error is still recorded in Job.Error.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps against job. Cancellation is checked between steps;
// a running step is expected to watch ctx itself.
func (p *Pipeline) Execute(ctx context.Context, job *Job) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("grab cancelled", "step", step.Name(), "reason", ctx.Err())
			job.Cancelled = true
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name(), "url", job.URL)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "url", job.URL, "error", err)
			if job.Error == nil {
				job.Error = err
			}
			if !p.continueOnError {
				return err
			}
		}

		job.PerformedSteps = append(job.PerformedSteps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
