// Package common contains shared constants and sentinel errors used across
// GeoLists components.
package common

const (
	// SharePasswordHeaderName is the HTTP header that carries the plaintext
	// share password on view/meta requests.
	SharePasswordHeaderName = "X-Share-Password"

	// EditTokenHeaderName is the HTTP header that carries the signed edit
	// capability token on update requests.
	EditTokenHeaderName = "X-Edit-Token"

	// DefaultListTitle is the placeholder title used whenever a list or a
	// decoded payload has no title of its own.
	DefaultListTitle = "My map"
)
