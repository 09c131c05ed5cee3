// Package services talks to the movies REST service.
//
// # Client
//
// [Client] is the single configured HTTP client. Every request reads the access token from
// durable storage through [TokenStore] and attaches it as a bearer header. A failing token
// read aborts the request before anything is sent.
//
// # Error Normalization
//
// Every failure leaving the package is an [*APIError] of one of three kinds:
//   - [KindResponse] : the server answered with a non-2xx status; message and error code come from the body
//   - [KindTransport] : no response was received (connection refused, timeout, reset)
//   - [KindUnknown] : the request never left the client, or a 2xx body could not be decoded
//
// A 401 response evicts the persisted token as a side effect. The session is not notified; the
// next caller that checks authentication sees the missing token.
//
// # Endpoints
//
// The endpoint methods are grouped by consumer into [AuthService], [MovieService] and
// [FavoriteService] so callers can depend on the narrowest interface.
package services
