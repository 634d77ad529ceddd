package gpu

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies failures at the graphics-device boundary.
type ErrorKind int

const (
	// KindSurfaceStale: surface lost or outdated. Reconfigure and skip the frame.
	KindSurfaceStale ErrorKind = iota + 1
	// KindSurfaceTimeout: presentation backend busy. Skip the frame.
	KindSurfaceTimeout
	// KindDeviceExhausted: out of memory or lost device. Stop rendering.
	KindDeviceExhausted
	// KindDegenerateCamera: eye on target or up parallel to the view direction.
	KindDegenerateCamera
	// KindZeroExtent: a zero width or height. Ignored, never surfaced as a failure.
	KindZeroExtent
)

var (
	ErrSurfaceStale     = errors.New("surface lost or outdated")
	ErrSurfaceTimeout   = errors.New("surface acquire timed out")
	ErrDeviceExhausted  = errors.New("graphics device exhausted")
	ErrDegenerateCamera = errors.New("degenerate camera")
	ErrZeroExtent       = errors.New("zero surface extent")
)

func (k ErrorKind) String() string {
	switch k {
	case KindSurfaceStale:
		return "SurfaceStale"
	case KindSurfaceTimeout:
		return "SurfaceTimeout"
	case KindDeviceExhausted:
		return "DeviceExhausted"
	case KindDegenerateCamera:
		return "DegenerateCamera"
	case KindZeroExtent:
		return "ZeroExtent"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindSurfaceStale:
		return ErrSurfaceStale
	case KindSurfaceTimeout:
		return ErrSurfaceTimeout
	case KindDeviceExhausted:
		return ErrDeviceExhausted
	case KindDegenerateCamera:
		return ErrDegenerateCamera
	case KindZeroExtent:
		return ErrZeroExtent
	}
	return nil
}

// Recoverable reports whether the render loop may continue after this kind.
func (k ErrorKind) Recoverable() bool {
	switch k {
	case KindSurfaceStale, KindSurfaceTimeout, KindZeroExtent:
		return true
	}
	return false
}

// SurfaceError is a classified device failure. errors.Is matches it against
// the Err* sentinel of its kind.
type SurfaceError struct {
	Kind  ErrorKind
	Cause error
}

func NewSurfaceError(kind ErrorKind, cause error) *SurfaceError {
	return &SurfaceError{Kind: kind, Cause: cause}
}

func (e *SurfaceError) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
}

func (e *SurfaceError) Unwrap() error {
	return e.Cause
}

func (e *SurfaceError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf extracts the kind of a classified error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	var se *SurfaceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}

// ClassifyAcquireError maps a raw surface-acquire failure onto the taxonomy.
// The binding reports the acquire status only through the message
// ("surface status device-lost"), so classification is by status name with
// separators and case ignored. Anything unrecognized is fatal.
func ClassifyAcquireError(err error) error {
	if err == nil {
		return nil
	}
	var se *SurfaceError
	if errors.As(err, &se) {
		return err
	}

	switch status := normalizeStatus(err.Error()); {
	case strings.Contains(status, "outofmemory"), strings.Contains(status, "devicelost"):
		return NewSurfaceError(KindDeviceExhausted, err)
	case strings.Contains(status, "timeout"):
		return NewSurfaceError(KindSurfaceTimeout, err)
	case strings.Contains(status, "outdated"), strings.Contains(status, "lost"):
		return NewSurfaceError(KindSurfaceStale, err)
	}
	return NewSurfaceError(KindDeviceExhausted, err)
}

var statusSeparators = strings.NewReplacer(" ", "", "-", "", "_", "")

// normalizeStatus lowercases msg and drops separators, keeping only the text
// after the last "surface status" marker when there is one.
func normalizeStatus(msg string) string {
	s := statusSeparators.Replace(strings.ToLower(msg))
	if i := strings.LastIndex(s, "surfacestatus"); i >= 0 {
		return s[i+len("surfacestatus"):]
	}
	return s
}
