// Package iojson writes JSON command output for machine consumption.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ErrorBody is the {error,message} failure shape shared with the analyst
// backend, so scripted callers parse one format on every failure path.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func fallbackError(msg string, jsonErr error) string {
	// json.Marshal on plain strings cannot fail, so escaping is safe here.
	errBytes, _ := json.Marshal(msg)
	msgBytes, _ := json.Marshal(jsonErr.Error())
	return fmt.Sprintf(`{"error":%s,"message":%s}`, errBytes, msgBytes)
}

// MarshalError renders an ErrorBody. A marshal failure here indicates a bug,
// and a hand-built blob naming that failure is returned instead.
func MarshalError(errMsg, detail string) string {
	bits, err := json.MarshalIndent(ErrorBody{Error: errMsg, Message: detail}, "", "  ")
	if err != nil {
		return fallbackError(errMsg, err)
	}
	return string(bits)
}

// WriteError prints an ErrorBody to stderr.
func WriteError(errMsg, detail string) error {
	_, err := fmt.Fprintln(os.Stderr, MarshalError(errMsg, detail))
	return err
}

// WriteWith writes obj as indented JSON to w. When marshaling fails, an
// ErrorBody goes to ew instead so the primary stream stays parseable.
func WriteWith(w io.Writer, ew io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		_, werr := fmt.Fprintln(ew, fallbackError("marshal output", err))
		return werr
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// Write calls WriteWith with [os.Stdout] and [os.Stderr].
func Write(obj any) error {
	return WriteWith(os.Stdout, os.Stderr, obj)
}
