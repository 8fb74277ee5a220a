package oci

import "errors"

// Codec errors. Each is fatal to the single encode/decode call that raised
// it; callers never retry.
var (
	// ErrUnsupportedSupplier indicates the supplier name is not in the registry.
	ErrUnsupportedSupplier = errors.New("unsupported OCI supplier")

	// ErrMalformedIdentifier indicates an identifier or code that does not
	// match the expected shape for its kind.
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrPrefixMismatch indicates an OCI whose citing and cited halves carry
	// different supplier prefixes. An OCI references a single supplier.
	ErrPrefixMismatch = errors.New("citing and cited prefixes differ")
)
