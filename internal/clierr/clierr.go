// Package clierr maps the cab error taxonomy to process exit codes at the
// command-line boundary, per the exit code conventions: 0 on success, 1 on
// a usage error, and a distinct positive code per operation error kind.
package clierr

import (
	"errors"
	"log"
	"os"

	"git.dolansoft.org/lorenz/gocab/cab"
)

// Exit codes for each operation error kind. 0 and 1 are reserved for
// success and usage errors respectively, handled by callers directly
// (log.Fatalf for usage, since it always exits 1).
const (
	codeIO                  = 2
	codeRange               = 3
	codeBadSignature        = 4
	codeUnsupportedCompress = 5
	codeTruncatedBlock      = 6
	codeCodec               = 7
	codeBufferOverflow      = 8
	codeStructuralMismatch  = 9
	codeManifest            = 10
	codePathEscape          = 11
	codeUnknown             = 99
)

// Code returns the exit code an operation error maps to, per §7 of the
// format's error taxonomy. A *os.PathError (e.g. from a caller-supplied
// path) maps to codeIO, since it is an I/O failure from the collaborators'
// point of view; any other error outside the taxonomy maps to codeUnknown.
// A CodecError is classified as such even when it wraps another kind.
func Code(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.As(err, new(*cab.RangeError)):
		return codeRange
	case errors.As(err, new(*cab.BadSignatureError)):
		return codeBadSignature
	case errors.As(err, new(*cab.UnsupportedCompressionError)):
		return codeUnsupportedCompress
	case errors.As(err, new(*cab.CodecError)):
		return codeCodec
	case errors.As(err, new(*cab.TruncatedBlockError)):
		return codeTruncatedBlock
	case errors.As(err, new(*cab.BufferOverflowError)):
		return codeBufferOverflow
	case errors.As(err, new(*cab.StructuralMismatchError)):
		return codeStructuralMismatch
	case errors.As(err, new(*cab.ManifestError)):
		return codeManifest
	case errors.As(err, new(*cab.PathEscapeError)):
		return codePathEscape
	case errors.As(err, new(*os.PathError)):
		return codeIO
	default:
		return codeUnknown
	}
}

// Fail logs msg and err via the standard logger, then exits the process
// with the code Code(err) maps to. It never returns.
func Fail(msg string, err error) {
	log.Printf(msg, err)
	os.Exit(Code(err))
}
