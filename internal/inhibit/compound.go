package inhibit

import (
	"context"
	"fmt"
)

// acquireStep is one facility call inside a compound acquire.
type acquireStep struct {
	facility Facility
	do       func(ctx context.Context) (Token, error)
	undo     func(ctx context.Context, token Token) error
}

// acquireSequence runs steps in order and returns every token on success.
// If a later step fails, tokens already acquired are released in reverse
// order before the error is returned, so the caller never observes a
// partial hold. Rollback failures are attached to the original error but
// do not change the outcome.
func acquireSequence(ctx context.Context, steps []acquireStep) ([]Token, error) {
	tokens := make([]Token, 0, len(steps))
	for _, step := range steps {
		token, err := step.do(ctx)
		if err != nil {
			err = fmt.Errorf("%s: %w", step.facility, err)
			for i := len(tokens) - 1; i >= 0; i-- {
				if undoErr := steps[i].undo(ctx, tokens[i]); undoErr != nil {
					err = fmt.Errorf("%w (rollback of %s also failed: %v)",
						err, steps[i].facility, undoErr)
				}
			}
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}
