// Package models defines the data exchanged with the movie catalog API and the pure functions
// shared by the CLI and the TUI.
//
// The package contains three categories of definitions:
//
// 1. Wire types: structs decoded from or encoded to the API
//   - [Movie] : a catalog record with an optional poster path
//   - [MoviePage] : one page of movies with pagination metadata
//   - [AuthResult] : the token and profile returned by registration
//   - [User] : the profile stored alongside the token
//
// 2. Validated input: [MovieInput] can only be produced by [ParseMovieForm], so a request builder
// never receives an unchecked form.
//
// 3. Pure helpers: [ValidateRegistration], [TotalPages], [ClampPage] and [PosterURL].
package models
