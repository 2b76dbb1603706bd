// Package dispatch implements the method registry and dispatch core: method
// lookup/invocation and translation of handler errors to the wire-level
// fault taxonomy. Frontend selection and envelope parsing live in package
// frontend and its dialect packages.
package dispatch

import "fmt"

// FaultCode is one of the numeric error codes returned verbatim in fault
// payloads.
type FaultCode int

const (
	FaultParsing                    FaultCode = 1
	FaultMethodNotFound              FaultCode = 2
	FaultType                        FaultCode = 3
	FaultIndexRange                  FaultCode = 4
	FaultObjectAccess                FaultCode = 5
	FaultValueRange                  FaultCode = 6
	FaultInternal                    FaultCode = 7
	FaultWrongArgument                FaultCode = 11
	FaultPlaybackFailed               FaultCode = 12
	FaultShuffle                      FaultCode = 13
	FaultRepeat                       FaultCode = 14
	FaultVolumeRange                  FaultCode = 15
	FaultVolumeSet                    FaultCode = 16
	FaultMute                         FaultCode = 17
	FaultEnqueue                      FaultCode = 18
	FaultDequeue                      FaultCode = 19
	FaultPlaylistNotFound             FaultCode = 20
	FaultTrackNotFound                FaultCode = 21
	FaultAlbumCoverLoad               FaultCode = 22
	FaultRatingSet                    FaultCode = 23
	FaultStatusSet                    FaultCode = 24
	FaultRadioCapture                 FaultCode = 25
	FaultMoveInQueue                  FaultCode = 26
	FaultAddURL                       FaultCode = 27
	FaultRemoveTrack                  FaultCode = 28
	FaultRemoveTrackDisabled          FaultCode = 29
)

// Fault is the handler-facing error type; its Code is translated verbatim
// by every frontend's serializeFault.
type Fault struct {
	Code    FaultCode
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault %d: %s", f.Code, f.Message)
}

// NewFault constructs a Fault with a formatted message.
func NewFault(code FaultCode, format string, args ...any) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...)}
}

// AsFault extracts a *Fault from err, wrapping unrecognised errors as
// FaultInternal — the dispatcher is the single translation point from rich
// Go errors to wire-level faults.
func AsFault(err error) *Fault {
	if err == nil {
		return nil
	}
	if f, ok := err.(*Fault); ok {
		return f
	}
	return &Fault{Code: FaultInternal, Message: err.Error()}
}
