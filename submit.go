package rxform

import (
	"context"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/pipz"
)

// Processor identities of the submission chain.
var (
	submitID         = pipz.NewIdentity("rxform:submit", "Form submission")
	submitSnapshotID = pipz.NewIdentity("rxform:submit:snapshot", "Snapshot field values and errors")
	submitCheckID    = pipz.NewIdentity("rxform:submit:check", "Reject submissions with field errors")
	submitCommitID   = pipz.NewIdentity("rxform:submit:commit", "Transition to submitted")
)

// submission carries one submit attempt through the chain.
type submission struct {
	Values    SubmitValues
	Errors    FormErrors
	Committed bool
}

// newSubmitChain builds snapshot -> check -> commit over a store. The check
// stage fails with a *ValidationError when any field has an error, which
// stops the chain before commit.
func newSubmitChain(store *Store) pipz.Chainable[*submission] {
	return pipz.NewSequence(submitID,
		pipz.Transform(submitSnapshotID, func(_ context.Context, sub *submission) *submission {
			snap := store.Snapshot()
			sub.Values = snap.FormValue.Values()
			sub.Errors = snap.FormValue.Errors()
			return sub
		}),
		pipz.Apply(submitCheckID, func(_ context.Context, sub *submission) (*submission, error) {
			if len(sub.Errors) > 0 {
				return sub, &ValidationError{Errors: sub.Errors}
			}
			return sub, nil
		}),
		pipz.Effect(submitCommitID, func(_ context.Context, sub *submission) error {
			sub.Committed = store.MarkSubmitted()
			return nil
		}),
	)
}

// runSubmit executes one submission on the loop goroutine. Validation
// failures go to OnError; they never escape as panics or returned errors.
func (f *Form) runSubmit(ctx context.Context) {
	if f.store.Submitted() {
		capitan.Emit(ctx, FormSubmitIgnored, KeyFormID.Field(f.id))
		return
	}

	start := f.cfg.clock.Now()
	sub := &submission{}
	_, err := f.submitChain.Process(ctx, sub)
	elapsed := f.cfg.clock.Since(start)

	if err != nil || len(sub.Errors) > 0 {
		errs := sub.Errors
		if errs == nil {
			errs = FormErrors{}
		}
		msg := ""
		if err != nil {
			msg = err.Error()
		}
		capitan.Emit(ctx, FormSubmitFailed,
			KeyFormID.Field(f.id),
			KeyErrorCount.Field(len(errs)),
			KeyError.Field(msg),
		)
		f.cfg.metrics.OnSubmitFailure(len(errs), elapsed)
		f.handlers.onError(errs)
		return
	}

	if !sub.Committed {
		// Sealed or submitted concurrently.
		return
	}

	capitan.Emit(ctx, FormStateChanged,
		KeyFormID.Field(f.id),
		KeyOldState.Field(SubmitIdle.String()),
		KeyNewState.Field(SubmitSubmitted.String()),
	)
	f.cfg.metrics.OnStateChange(SubmitIdle, SubmitSubmitted)
	capitan.Emit(ctx, FormSubmitSucceeded, KeyFormID.Field(f.id))
	f.cfg.metrics.OnSubmitSuccess(elapsed)
	f.handlers.onSubmit(sub.Values)
}
