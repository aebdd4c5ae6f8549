/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and the plain failure strings sent to chat clients.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: Request and Frame Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data."},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large."},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Command Protocol Errors
	ErrNotLoggedIn:    {Code: ErrNotLoggedIn, Message: "You are not logged in. Send a login command first."},
	ErrPayloadShape:   {Code: ErrPayloadShape, Message: "Malformed payload for command %s."},
	ErrUnknownCommand: {Code: ErrUnknownCommand, Message: "Unknown command %s."},
	ErrRoomNameEmpty:  {Code: ErrRoomNameEmpty, Message: "Room name must not be empty."},

	// 4xxx: File Store Errors
	ErrFileNotFound:      {Code: ErrFileNotFound, Message: "Error: File not found.", Status: http.StatusNotFound},
	ErrFileNameInvalid:   {Code: ErrFileNameInvalid, Message: "Invalid file name.", Status: http.StatusBadRequest},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "Error saving file.", Status: http.StatusInternalServerError},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
