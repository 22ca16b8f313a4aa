// Package hal is the endpoint-registration layer between the API
// surface and the underlying HTTP server.
//
// Endpoints can be registered at any time. Before the server starts
// they accumulate in an ordered backlog; Start brings the server up and
// replays the backlog against it in registration order. Once running,
// registrations go live immediately. Stopping tears down the server but
// keeps the backlog, so a later Start restores every endpoint ever
// registered.
//
// The facade itself performs no locking: lifecycle transitions and
// registration calls belong to a single owning goroutine. Request
// dispatch happens inside the backend, which synchronizes its own
// route table.
package hal
