package media

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLink indicates the text is not a supported video link.
	ErrInvalidLink = errors.New("invalid link")
	// ErrResolverMetadata indicates the resolver failed to list formats.
	ErrResolverMetadata = errors.New("resolver metadata error")
	// ErrMalformedToken indicates a button payload that does not split into four fields.
	ErrMalformedToken = errors.New("malformed token")
	// ErrUnknownAction indicates a button payload with a foreign action tag.
	ErrUnknownAction = errors.New("unknown action")
	// ErrUnrecognizedFormatSpec indicates a format spec with a missing or unknown tag.
	ErrUnrecognizedFormatSpec = errors.New("unrecognized format spec")
	// ErrTokenTooLong indicates an encoded token over the transport payload ceiling.
	ErrTokenTooLong = errors.New("token too long")
	// ErrResolverDownload indicates the resolver failed to fetch the file.
	ErrResolverDownload = errors.New("resolver download error")
	// ErrDelivery indicates the chat service failed to send the file.
	ErrDelivery = errors.New("delivery error")
	// ErrFileTooLarge indicates the downloaded file exceeds the upload limit.
	ErrFileTooLarge = errors.New("file too large")
)

// DetailError ties a taxonomy kind to the underlying cause. Both match errors.Is.
type DetailError struct {
	Kind error
	Op   string
	Err  error
}

func (e *DetailError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *DetailError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Wrap attaches a taxonomy kind to err. A nil err yields nil.
func Wrap(kind error, op string, err error) error {
	if err == nil {
		return nil
	}
	return &DetailError{Kind: kind, Op: op, Err: err}
}

// ErrorCategory is a stable label for logs and user messages.
type ErrorCategory string

const (
	ErrorCategoryInvalidLink      ErrorCategory = "invalid_link"
	ErrorCategoryResolverMetadata ErrorCategory = "resolver_metadata"
	ErrorCategoryBadToken         ErrorCategory = "bad_token"
	ErrorCategoryResolverDownload ErrorCategory = "resolver_download"
	ErrorCategoryFileTooLarge     ErrorCategory = "file_too_large"
	ErrorCategoryDelivery         ErrorCategory = "delivery"
	ErrorCategoryUnknown          ErrorCategory = "unknown"
)

func ClassifyError(err error) ErrorCategory {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidLink):
		return ErrorCategoryInvalidLink
	case errors.Is(err, ErrResolverMetadata):
		return ErrorCategoryResolverMetadata
	case errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrUnknownAction),
		errors.Is(err, ErrUnrecognizedFormatSpec),
		errors.Is(err, ErrTokenTooLong):
		return ErrorCategoryBadToken
	case errors.Is(err, ErrFileTooLarge):
		return ErrorCategoryFileTooLarge
	case errors.Is(err, ErrResolverDownload):
		return ErrorCategoryResolverDownload
	case errors.Is(err, ErrDelivery):
		return ErrorCategoryDelivery
	default:
		return ErrorCategoryUnknown
	}
}

// UserMessage returns the text shown in chat for err. It never includes the cause.
func UserMessage(err error) string {
	switch ClassifyError(err) {
	case ErrorCategoryInvalidLink:
		return "Please send a valid YouTube link."
	case ErrorCategoryResolverMetadata:
		return "🚫 Could not fetch video details. The video may be private, removed or region-locked."
	case ErrorCategoryBadToken:
		return "Error: invalid button data. Send the link again."
	case ErrorCategoryFileTooLarge:
		return "🚫 The file is too large to send here. Pick a lower quality."
	case ErrorCategoryResolverDownload:
		return "🚫 Download failed. Try another format or send the link again."
	case ErrorCategoryDelivery:
		return "🚫 Could not send the file. Try again later."
	default:
		return "🚫 Something went wrong. Try again."
	}
}
