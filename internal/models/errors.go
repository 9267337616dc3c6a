package models

import (
	"fmt"
	"strconv"
)

// MalformedDocumentError reports a missing mandatory structural node.
type MalformedDocumentError struct {
	Node   string
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	if e.Reason != "" {
		return "malformed document: " + e.Node + ": " + e.Reason
	}
	return "malformed document: missing " + e.Node
}

// MissingAttributeError reports an absent or unusable attribute or text value
// on a node that is otherwise present.
type MissingAttributeError struct {
	Element   string
	Attribute string
	Reason    string
}

func (e *MissingAttributeError) Error() string {
	msg := "missing attribute " + e.Attribute + " on " + e.Element
	if e.Reason != "" {
		msg = "invalid attribute " + e.Attribute + " on " + e.Element + ": " + e.Reason
	}
	return msg
}

type TimestampParseError struct {
	Field  string
	Value  string
	Layout string
}

func (e *TimestampParseError) Error() string {
	return fmt.Sprintf("%s: timestamp %q does not match layout %s", e.Field, e.Value, e.Layout)
}

type EmptyInputError struct {
	Operation string
}

func (e *EmptyInputError) Error() string {
	return e.Operation + ": no tickets to select from"
}

// ItineraryError ties a normalization failure to the zero-based position of
// the itinerary in the source document.
type ItineraryError struct {
	Index int
	Err   error
}

func (e *ItineraryError) Error() string {
	return "itinerary " + strconv.Itoa(e.Index) + ": " + e.Err.Error()
}

func (e *ItineraryError) Unwrap() error {
	return e.Err
}

func NewItineraryError(index int, err error) *ItineraryError {
	return &ItineraryError{
		Index: index,
		Err:   err,
	}
}
