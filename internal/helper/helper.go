package helper

import "context"

// CheckDeadline returns the context's error if it is already cancelled or
// past its deadline, so repository methods can bail out before touching
// the database.
func CheckDeadline(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
