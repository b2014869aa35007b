// Package http provides HTTP handlers and middleware for the room booking API.
//
// The router exposes the following endpoints, all exchanging JSON:
//   - GET /rooms, POST /rooms, GET/PUT/DELETE /rooms/{id}: room catalog. The
//     request body is {"name","capacity","equipment":[id]}; responses carry
//     the `roomDTO` defined in room_handler.go with full equipment objects.
//   - GET /equipment, POST /equipment, GET/PUT/DELETE /equipment/{id}: the
//     equipment catalog exchanging `equipmentDTO`.
//   - GET /bookings, POST /bookings, GET/PUT/DELETE /bookings/{id}: bookings.
//     The request body is {"title","startTime","endTime","attendees",
//     "organizer","roomId","equipment":[id]} with RFC 3339 timestamps; the
//     `bookingDTO` response adds "id" and the nested "room".
//   - GET /healthz: liveness probe, exempt from the API key check.
//
// Collections are returned as bare JSON arrays and single resources as bare
// objects. Failures use {"message": ..., "errors": {field: message}} with
// 400 for undecodable bodies, 404 for unknown identifiers, 409 for conflicts
// such as "Room overlap", 422 for validation failures, 401 for a missing or
// wrong X-API-Key and 429 when the per-client rate limit is exceeded.
package http
