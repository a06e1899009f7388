// Package services implements the HTTP clients for the movie catalog API.
//
// # Movie Service
//
// [MovieService] maps each catalog endpoint to one method. Requests that need a bearer token go
// through an [oauth2.Transport] whose token source is the session store, so no method reads the
// token itself. GET /movies/{id} is sent without credentials.
//
// # Raw Access
//
// [APIService] issues arbitrary GET and POST requests against the same base URL for debugging
// (reel api get).
//
// # Error Handling
//
// Non-2xx responses become [*APIError], which unwraps to [shared.ErrAPIRequest] and matches
// [shared.ErrNotFound] for 404s. Transport failures wrap [shared.ErrNetwork]; an unreadable success
// body wraps [shared.ErrUnexpectedResponse]. [Describe] turns any of these into the text shown to
// the user.
package services
