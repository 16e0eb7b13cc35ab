package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure
type Kind int

const (
	KindDecode               Kind = iota + 1 // unreadable, corrupt or unsupported source media
	KindUnsupportedAudio                     // degenerate sample data
	KindUnknownPreset                        // preset name not in the fixed table
	KindFrameIndexOutOfRange                 // internal invariant violation
	KindRender                               // degenerate base image
	KindEncode                               // output write or container failure
	KindCancelled                            // user-requested abort
)

func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode error"
	case KindUnsupportedAudio:
		return "unsupported audio"
	case KindUnknownPreset:
		return "unknown preset"
	case KindFrameIndexOutOfRange:
		return "frame index out of range"
	case KindRender:
		return "render error"
	case KindEncode:
		return "encode error"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown error"
	}
}

// Sentinel errors for matching with errors.Is
var (
	ErrDecode               = &Error{Kind: KindDecode, Frame: -1}
	ErrUnsupportedAudio     = &Error{Kind: KindUnsupportedAudio, Frame: -1}
	ErrUnknownPreset        = &Error{Kind: KindUnknownPreset, Frame: -1}
	ErrFrameIndexOutOfRange = &Error{Kind: KindFrameIndexOutOfRange, Frame: -1}
	ErrRender               = &Error{Kind: KindRender, Frame: -1}
	ErrEncode               = &Error{Kind: KindEncode, Frame: -1}
	ErrCancelled            = &Error{Kind: KindCancelled, Frame: -1}
)

// Error is a classified pipeline failure with enough context to act on
type Error struct {
	Kind   Kind
	Stage  string // "decode", "analyze", "preset", "effects", "render", "encode"
	Path   string // source or output file, if any
	Frame  int    // frame index for per-frame failures, -1 otherwise
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Frame >= 0 {
		msg += fmt.Sprintf(" at frame %d", e.Frame)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same Kind, so sentinels work with errors.Is
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// IsDefect reports whether err is an internal invariant violation rather
// than a usage or environment problem
func (e *Error) IsDefect() bool {
	return e.Kind == KindFrameIndexOutOfRange
}

// New creates a classified error
func New(kind Kind, stage, path, detail string, cause error) *Error {
	return &Error{
		Kind:   kind,
		Stage:  stage,
		Path:   path,
		Frame:  -1,
		Detail: detail,
		Cause:  cause,
	}
}

// Decode creates a decode failure for path
func Decode(path string, cause error) *Error {
	return New(KindDecode, "decode", path, "", cause)
}

// Decodef creates a decode failure with a formatted detail message
func Decodef(path, format string, args ...any) *Error {
	return New(KindDecode, "decode", path, fmt.Sprintf(format, args...), nil)
}

// UnsupportedAudio creates a degenerate-audio failure
func UnsupportedAudio(detail string) *Error {
	return New(KindUnsupportedAudio, "analyze", "", detail, nil)
}

// UnknownPreset creates an unknown preset failure
func UnknownPreset(name string) *Error {
	return New(KindUnknownPreset, "preset", "", fmt.Sprintf("%q is not a preset", name), nil)
}

// FrameIndexOutOfRange creates an invariant violation for a frame lookup
func FrameIndexOutOfRange(frame, length int) *Error {
	e := New(KindFrameIndexOutOfRange, "effects", "", fmt.Sprintf("envelope has %d frames", length), nil)
	e.Frame = frame
	return e
}

// Render creates a render failure
func Render(detail string) *Error {
	return New(KindRender, "render", "", detail, nil)
}

// Encode creates an encode failure for the output path
func Encode(path string, cause error) *Error {
	return New(KindEncode, "encode", path, "", cause)
}

// Cancelled creates a cancellation result
func Cancelled(cause error) *Error {
	return New(KindCancelled, "pipeline", "", "", cause)
}

// KindOf returns the Kind of err, or 0 if err is not classified
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsDefect reports whether err is (or wraps) an internal invariant violation
func IsDefect(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.IsDefect()
}
