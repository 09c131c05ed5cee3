// Package server provides HTTP routing and middleware, and an in-memory implementation of the
// movies REST service used for local development and integration tests.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. Paths may
// use ServeMux wildcards such as "/api/movies/{id}".
//
// # Mock Backend
//
// [Backend] serves the seven endpoints the client uses:
//   - POST /api/auth/signin
//   - GET /api/movies/popular?page=N
//   - GET /api/movies/{id}
//   - GET /api/movies/favorites/list
//   - POST /api/movies/favorites
//   - DELETE /api/movies/favorites/{id}
//   - GET /api/movies/favorites/check/{id}
//
// Every /api/movies route requires a bearer token issued by sign-in. Errors use the service's
// body shape {"message": ..., "error": ...}: 401 for a missing or unknown token, 404 for an
// unknown movie or favorite, 409 when adding a movie that is already a favorite.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
