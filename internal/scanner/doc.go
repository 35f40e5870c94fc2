// Package scanner implements the heuristic site-scanning pipeline: parsing
// raw institution pages into typed records, classifying them, extracting
// campus/faculty/course entities with confidence scores, filtering academic
// links, driving listing-page pagination through an abstract page controller,
// and aggregating results into a deduplicated hierarchy.
//
// Every operation in this package degrades gracefully: arbitrary third-party
// HTML must never halt a scan, so parse anomalies yield best-effort records,
// type mismatches yield nil entities, and browser failures end a pagination
// strategy instead of propagating.
package scanner
