package model

// RawRow is one data row of an uploaded sheet, keyed by trimmed header.
type RawRow map[string]string
