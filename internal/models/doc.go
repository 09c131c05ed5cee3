// Package models defines the data exchanged with the movies REST service and persisted on the client.
//
// The package contains three categories of types:
//
// 1. Auth payloads
//   - [SignInRequest] : credentials posted to /api/auth/signin, validated before sending
//   - [AuthResponse] : access token plus the signed-in [User]
//   - [User] : the persisted user record, validated on read from durable storage
//
// 2. Catalogue payloads
//   - [Movie] : base movie shape returned by listings
//   - [MovieDetails] : full record from /api/movies/{id}
//   - [MoviesPage] : one page of /api/movies/popular
//
// 3. Favorites payloads
//   - [Favorite] : one entry of /api/movies/favorites/list
//   - [FavoriteStatus] : answer of /api/movies/favorites/check/{id}
//
// [MovieView] is the presentation model built from [MovieDetails] for CLI and TUI rendering.
package models
