package domain

import "errors"

// Ingestion error taxonomy. Sentinels are matched with errors.Is; callers
// decide whether a given failure aborts a flow or only the current item.
var (
	// ErrInvalidURL marks a malformed or unrecognized source URL.
	ErrInvalidURL = errors.New("invalid source URL")

	// ErrNotFound marks a missing upstream resource, such as a video
	// with no captions in the requested language.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists marks a dedup hit on an explicit single-item
	// ingestion.
	ErrAlreadyExists = errors.New("content already exists")

	// ErrFetchFailure marks a transient network or parse failure while
	// fetching an article or feed.
	ErrFetchFailure = errors.New("fetch failure")

	// ErrFeedUnreachable marks a feed that could not be fetched or
	// parsed. It aborts only that feed, never its siblings.
	ErrFeedUnreachable = errors.New("feed unreachable")

	// ErrEnrichment marks a model call or response parse failure.
	// Content without labels is never persisted, so this always aborts
	// the item.
	ErrEnrichment = errors.New("enrichment failure")

	// ErrUpstream marks a transport failure against the transcript
	// source.
	ErrUpstream = errors.New("upstream error")

	// ErrPersistFailure marks a storage write error other than a
	// race-lost duplicate, which is treated as ErrAlreadyExists.
	ErrPersistFailure = errors.New("persist failure")
)
