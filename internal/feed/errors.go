package feed

import (
	"errors"

	"github.com/soapboxhq/holler/internal/soapbox"
)

// Compile-time proof that the real client satisfies every collection's view
// of it.
var (
	_ BoardAPI   = (*soapbox.Client)(nil)
	_ VoteAPI    = (*soapbox.Client)(nil)
	_ ThreadAPI  = (*soapbox.Client)(nil)
	_ CatalogAPI = (*soapbox.Client)(nil)
	_ TicketAPI  = (*soapbox.Client)(nil)
)

// displayError turns a client error into the string rendered to the user.
// The server's own message wins when it has one; transport failures get a
// stable phrasing instead of raw dial errors, and anything unrecognized
// falls back to a generic line rather than leaking internals.
func displayError(err error) string {
	var apiErr *soapbox.APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		if apiErr.Code == soapbox.CodeNetwork {
			return "Cannot reach the server"
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Code
	default:
		return "Something went wrong. Please try again."
	}
}
