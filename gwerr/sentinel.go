package gwerr

// Predefined sentinel errors for common gateway failure cases.
var (
	// ErrUnsupportedFamily indicates the header's family field was not
	// the one this gateway recognizes.
	ErrUnsupportedFamily = &Error{Kind: FamilyUnsupported, Detail: "unsupported protocol family"}

	// ErrUnsupportedGwtype indicates the header's gwtype field named a
	// gateway type this build does not implement.
	ErrUnsupportedGwtype = &Error{Kind: InvalidArg, Detail: "unsupported gateway type"}

	// ErrTooManyOperators indicates an operator list exceeded
	// frame.MaxOperators.
	ErrTooManyOperators = &Error{Kind: InvalidArg, Detail: "too many operators"}

	// ErrEmptySelector indicates an operator's field selector was empty.
	ErrEmptySelector = &Error{Kind: InvalidArg, Detail: "operator selector is empty"}

	// ErrIndexOutOfDomain indicates a checksum stage's from/to/result
	// index fell outside [-8, 7].
	ErrIndexOutOfDomain = &Error{Kind: InvalidArg, Detail: "checksum index out of domain"}

	// ErrZeroInterfaces indicates an ADD request carried the
	// (src=0, dst=0) sentinel, which is only valid for DEL.
	ErrZeroInterfaces = &Error{Kind: InvalidArg, Detail: "src/dst interface required"}

	// ErrMissingInterfaces indicates a request lacked SRC_IF or DST_IF.
	ErrMissingInterfaces = &Error{Kind: InvalidArg, Detail: "missing src or dst interface attribute"}

	// ErrNoMemory indicates a Job or buffer allocation failed.
	ErrNoMemory = &Error{Kind: NoMem, Detail: "allocation failed"}

	// ErrInterfaceGone indicates an interface index does not resolve.
	ErrInterfaceGone = &Error{Kind: NoDev, Detail: "interface does not exist"}

	// ErrOneInterfaceZero indicates a request named exactly one of
	// src/dst interface as index 0 — index 0 is only meaningful as the
	// (src=0, dst=0) all-jobs sentinel; naming it for one side alone
	// resolves to no interface.
	ErrOneInterfaceZero = &Error{Kind: NoDev, Detail: "src/dst interface index 0 only valid when both are zero"}

	// ErrWrongLinkType indicates an interface resolved to the wrong
	// link-layer type for this gateway.
	ErrWrongLinkType = &Error{Kind: NoDev, Detail: "interface has wrong link-layer type"}

	// ErrJobNotFound indicates a DEL request matched no installed Job.
	ErrJobNotFound = &Error{Kind: NotFound, Detail: "no matching job"}

	// ErrBatchTruncated indicates a LIST response was truncated at an
	// attribute boundary; the caller should retry with the returned
	// cursor.
	ErrBatchTruncated = &Error{Kind: MsgTooLarge, Detail: "response batch truncated"}
)
