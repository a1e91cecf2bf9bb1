// Package mapping provides the YAML mapping file: schema, parsing and validation.
//
// The mapping file tunes how plans are compiled without touching the mapped
// types themselves.
//
// # Schema Overview
//
//	version: "1"
//	matching: case_insensitive   # or "normalized" (also ignores _ and -)
//	categories: [safe_number, text_number, text, pointer]
//	mappings:
//	  - source: store.Order
//	    target: warehouse.Order
//	    # source field -> target field renames
//	    121:
//	      OrderNumber: Reference
//	    # target fields never written
//	    ignore:
//	      - Signature
//
// Types are referenced either by "<package alias>.<Name>" or by the full
// "<import path>.<Name>" form.
//
// # Priority Order
//
//  1. "121" renames (highest)
//  2. "ignore" list
//  3. name matching (lowest)
package mapping
