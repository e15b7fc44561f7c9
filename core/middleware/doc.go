// Package middleware groups the Fiber middleware of the gateway.
//
//   - auth: API key check on fiber keyauth (X-API-Key header or api_key query parameter).
//   - rayid: assigns every request a ray id, stored in Locals and echoed in
//     the X-Ray-Id response header, so logs of one request can be correlated.
//
// Register rayid first so every later log line carries the id.
package middleware
