package testutil

import (
	"net/http"

	id "calldex/pkg/domain"
	"calldex/pkg/requestcontext"
)

// AsUser threads userID into the request context the way the auth
// middleware would for an authenticated request.
func AsUser(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}
