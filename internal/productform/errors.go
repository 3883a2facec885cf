package productform

import "errors"

var (
	ErrNotMounted         = errors.New("product form is not mounted")
	ErrClosed             = errors.New("product form is closed")
	ErrVariantIndex       = errors.New("variant index out of range")
	ErrImagePosition      = errors.New("image position out of range")
	ErrInvalidDescription = errors.New("description is not a valid document")
	ErrSaveInProgress     = errors.New("save already in progress")
	ErrNoUploader         = errors.New("image upload is not configured")
	ErrNoSaver            = errors.New("product saving is not configured")
)
