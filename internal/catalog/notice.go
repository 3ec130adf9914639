package catalog

import (
	"errors"
	"fmt"

	"github.com/user/video-manager-go/internal/model"
	"github.com/user/video-manager-go/internal/store"
)

// Notice renders err as the message a shell shows to the user.
// Unexpected faults get a generic message so no raw internals leak.
func Notice(op string, err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return fmt.Sprintf("Cannot %s video: %v", op, err)
	case errors.Is(err, store.ErrNotFound):
		return "No such video"
	case errors.Is(err, store.ErrWrite):
		return fmt.Sprintf("Failed to %s video: %v", op, err)
	case errors.Is(err, store.ErrQuery):
		if op == "list" || op == "search" {
			return fmt.Sprintf("Failed to %s videos: %v", op, err)
		}
		return fmt.Sprintf("Failed to %s video: %v", op, err)
	case errors.Is(err, ErrNoFetcher):
		return "Metadata lookup is not available"
	default:
		return fmt.Sprintf("Failed to %s video: unexpected error", op)
	}
}
