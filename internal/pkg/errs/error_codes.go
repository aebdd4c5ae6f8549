/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific protocol, command, or storage failures both
internally within the server and in replies sent to clients.
*/
package errs

// 1xxx: Request and Frame Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that a request or frame body was not valid JSON.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Command Protocol Errors
const (
	// ErrNotLoggedIn indicates a command that needs a session identity was sent before login.
	ErrNotLoggedIn = 2001

	// ErrPayloadShape indicates an envelope payload did not carry the variant the command expects.
	ErrPayloadShape = 2002

	// ErrUnknownCommand indicates an envelope named a command the dispatcher does not recognize.
	ErrUnknownCommand = 2003

	// ErrRoomNameEmpty indicates a room-related command was issued with an empty room name.
	ErrRoomNameEmpty = 2004
)

// 4xxx: File Store Errors
const (
	// ErrFileNotFound indicates the requested file does not exist in the store.
	ErrFileNotFound = 4001

	// ErrFileNameInvalid indicates a supplied file name is empty or escapes the storage root.
	ErrFileNameInvalid = 4002

	// ErrFileStorageFailed indicates a read or write against the file store failed.
	ErrFileStorageFailed = 4003
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
