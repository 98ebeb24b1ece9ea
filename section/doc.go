// Package section defines the fixed frame records of an OASIS stream: the
// START record that follows the magic header and the END record that
// closes the file.
//
// # Stream Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Magic "%SEMI-OASIS\r\n" (13 bytes)                      │
//	├─────────────────────────────────────────────────────────┤
//	│ START                                                   │
//	│  - version a-string ("1.0")                             │
//	│  - unit real (database units per micron)                │
//	│  - offset-flag: 0 = table offsets here, 1 = in END      │
//	│  - [table offsets] (6 × strict-flag + offset)           │
//	├─────────────────────────────────────────────────────────┤
//	│ Name records, cells, CBLOCKs ...                        │
//	├─────────────────────────────────────────────────────────┤
//	│ END (always 256 bytes)                                  │
//	│  - [table offsets]                                      │
//	│  - padding b-string                                     │
//	│  - validation scheme (+ 4 byte signature if non-zero)   │
//	└─────────────────────────────────────────────────────────┘
//
// Readers consume the record id themselves and hand the remaining bytes to
// the Read methods; the Append methods emit complete records, id included.
package section
