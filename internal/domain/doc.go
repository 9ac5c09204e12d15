// Package domain models freight shipment records and their carbon enrichment.
//
// # Data Source
//
// Shipment records arrive as flat JSON from upstream logistics systems
// (carrier EDI bridges, TMS exports, booking APIs) on the Kafka source topic.
// Field quality varies widely between carriers, so parsing is deliberately
// lenient: missing timestamps become zero times, missing distances are
// recovered from coordinates when possible, and physical validation is
// deferred to the calculation engine.
//
// # Record Conventions
//
// Coordinates:
//
//	WGS-84 decimal degrees. Raw records carry them as nullable fields
//	because "no coordinate" and "0,0" must be distinguishable; a surprising
//	number of carrier feeds place their warehouses on Null Island otherwise.
//
// Distance:
//
//	Kilometers. When absent or non-positive, derived as the great-circle
//	distance between origin and destination via [HaversineKM]. Route
//	distance always exceeds great-circle, so derived values understate
//	emissions slightly.
//
// Timestamps:
//
//	RFC 3339. Departure and arrival are advisory and only used for derived
//	transit time, never for the emission calculation itself.
//
// Transport mode:
//
//	One of "air", "ground", "sea" after lowercasing. Anything else is
//	flagged by [ValidateRecord] and rejected later by the engine.
//
// # ID Generation
//
// Records without a shipment ID get a deterministic SHA-256 fallback over
// origin|destination|mode|weight|distance|departure. Replaying the same raw
// record therefore produces the same shipment ID, which keeps downstream
// upserts idempotent.
//
// # Quality Annotations
//
// [ValidateRecord] attaches advisory issue codes rather than rejecting
// records; the pipeline counts them and ships them with the record.
// [FlagAnomalousEmissions] additionally marks per-mode statistical outliers
// within a batch so a fat-fingered weight shows up in dashboards instead of
// quietly inflating a fleet total.
package domain
