// Package resource models the rooms, equipment, and bookings exposed by the
// booking API and issues the HTTP calls that create, read, update, and delete
// them.
//
// Entities are plain values. Decode functions turn a server JSON document into
// an entity without failing on missing or mistyped fields, and the Create and
// Update functions produce the write payload for an entity, leaving out the
// fields the server owns. Client performs one request per operation against
// the collection path (for example /rooms) or the member path (/rooms/{id}).
//
// Failures are reported with distinguishable errors:
//   - ErrTransport when the request never produced a response,
//   - *APIError when the server answered with a non-success status,
//   - ErrMalformedResponse when a success body could not be parsed,
//   - *ValidationError when an entity is rejected before any request is sent.
package resource
