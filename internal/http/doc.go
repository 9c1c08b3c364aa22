// Package http provides HTTP handlers and middleware for the workplace
// planner API.
//
// The router exposes the following endpoints:
//   - POST /sessions: issues a session token. Body: {"email","password"}.
//     Response: {"token","expires_at","user"} with the token also surfaced via
//     the `X-Session-Token` header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted
//     from the Authorization header, the X-Session-Token header or the session
//     cookie. Returns 204 No Content and clears the cookie.
//   - GET /team: lists every colleague ordered by display name.
//   - GET /team/{id}: returns a single colleague.
//   - GET /schedule: returns the versioned schedule snapshot as a sparse
//     user -> date -> location map, including derived holiday cells.
//   - PUT /schedule/entries: writes one cell of the acting user's schedule.
//   - DELETE /schedule/entries: clears one explicit cell of the acting user's
//     schedule; unset and derived holiday cells report 404.
//   - POST /schedule/week/copy, POST /schedule/week/off: week-level shortcuts
//     for the acting user.
//   - GET /overview/day?date=, GET /overview/week?date=: localized day and
//     week views of the whole team.
//   - GET /insights?year=: yearly statistics plus the near-term absence
//     outlook.
//   - PUT /account/password: changes the acting user's password.
//   - POST /account/password-reset, POST /account/password-reset/complete:
//     the reset-token flow; both are reachable without a session.
//
// Responses are localized through the lang query parameter or the
// Accept-Language header (Dutch default, English supported). Request and
// response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
