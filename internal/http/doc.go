// Package http exposes the agenda as a JSON API for a browser front-end on
// the same machine.
//
// The acting principal is always the document's authenticated user, so the
// API serves one desk at a time. Routes:
//   - POST /login {"email","password"}, POST /logout, GET /session: the
//     authentication pointer and the views open to the current role.
//   - POST /demo: seeds demonstration data; available before login.
//   - GET /agenda?date=YYYY-MM-DD: day slot table and month grid.
//   - GET /bookings?date=, POST /bookings, DELETE /bookings/{id}.
//   - GET /clients, POST /clients, DELETE /clients/{id}.
//   - GET /users, POST /users, DELETE /users/{id}: administrators only.
//   - GET /finance, POST /finance, DELETE /finance/{id}.
//   - GET /config, PUT /config, GET /backup, POST /backup, POST /reset:
//     administrators only.
//
// POST endpoints upsert: a body without a known "id" creates a record.
// Errors are returned as {"message", "errors"} with pt-BR messages.
package http
