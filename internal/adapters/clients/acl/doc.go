// Package acl provides the Anti-Corruption Layer between the remote quote
// API and the domain.
//
// The ACL is a translation boundary. It ensures that:
//
//   - External DTOs never leak into the domain
//   - Transport failures and non-2xx answers map to domain errors
//   - Payloads are validated before domain objects are created
//   - Changes to the external API stay inside this package
//
// # Package Components
//
//   - [QuoteClient]: the zenquotes adapter, a ports.QuoteSource and ports.HealthChecker
//   - [BaseAdapter]: embeddable struct with GET and error mapping
//   - [MapHTTPError]: transport and status mapping to domain errors, using
//     the upstream's own message when its error body has one
//   - [DecodeResponse]: generic bounded JSON decoder
//   - [TranslateSlice]: batch translation helper
//
// # Error Handling Strategy
//
// The quote feed only needs to know whether a usable batch arrived:
//   - Network errors, open circuit, any non-2xx → [domain.ErrUnavailable]
//   - Undecodable or structurally wrong payload → [domain.ErrValidation]
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrRequestFailed])
// keep their operation name in the reason so logs show what was attempted.
// Nothing here retries; each fetch is a single attempt.
package acl
