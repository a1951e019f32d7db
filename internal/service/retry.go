package service

import (
	"errors"

	"github.com/JordyV23/social-app/internal/apperr"
	"github.com/JordyV23/social-app/internal/model"
)

// maxMutationAttempts bounds read-modify-write retries after a revision conflict.
const maxMutationAttempts = 3

// retryOnConflict runs attempt until it stops failing with model.ErrConflict.
// onRetry is called before every repeated attempt.
func retryOnConflict(attempt func() error, onRetry func()) error {
	for i := 0; i < maxMutationAttempts; i++ {
		if i > 0 && onRetry != nil {
			onRetry()
		}
		err := attempt()
		if !errors.Is(err, model.ErrConflict) {
			return err
		}
	}
	return apperr.NewErrConcurrentUpdate()
}
