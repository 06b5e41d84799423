package patterns

import "regexp"

// UnlimitedValuePattern matches a 0xff...-style max-uint encoding or a bare
// integer literal of 30+ digits, either of which signals an unbounded
// approval/allowance amount inside signed typed data (spec.md §4.4.5).
var UnlimitedValuePattern = regexp.MustCompile(`0x[fF]{16,}|\b\d{30,}\b`)

// PermitPattern matches an EIP-2612-style "Permit" typed-data message,
// case-insensitively (spec.md §4.4.5).
var PermitPattern = regexp.MustCompile(`(?i)\bpermit\b`)
