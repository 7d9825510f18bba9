package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("Please login to continue")
	ErrForbidden       = errors.New("You can only change your own content")
	ErrUploadFailed    = errors.New("Failed to upload image. Please try again.")
	ErrNotConfirmed    = errors.New("Deletion must be confirmed")
)

func uploadErr(err error) error {
	return fmt.Errorf("%w: %v", ErrUploadFailed, err)
}
