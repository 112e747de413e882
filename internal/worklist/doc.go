// Package worklist builds, serializes, and parses migration worklists.
//
// A worklist is a semicolon-delimited text table of volume records, one header
// line followed by one line per candidate volume. The builder collects records
// across every project (or one named project), normalization fills optional
// fields with the "n.a." sentinel so a serialized record always carries all
// nine columns, and serialization applies the storage filter and the final
// case-insensitive ordering.
package worklist
