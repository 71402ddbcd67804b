// Package release decides which release tag to install: an explicit override
// when the caller pinned one, otherwise the latest release reported by the
// GitHub Releases API.
package release

import (
	"context"
	"errors"
	"fmt"
)

// ErrVersionResolutionFailed is wrapped by every ResolutionError.
var ErrVersionResolutionFailed = errors.New("version resolution failed")

// Source describes where a resolved tag came from.
type Source string

const (
	// SourceOverride means the caller supplied the tag.
	SourceOverride Source = "override"
	// SourceLatest means the tag came from the latest-release lookup.
	SourceLatest Source = "latest"
)

// Resolution is a resolved release tag.
type Resolution struct {
	Tag    string
	Source Source
}

// ResolutionError reports a failed latest-release lookup.
type ResolutionError struct {
	Repo string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve latest release of %s: %v", e.Repo, e.Err)
}

// Unwrap exposes both ErrVersionResolutionFailed and the underlying cause.
func (e *ResolutionError) Unwrap() []error {
	return []error{ErrVersionResolutionFailed, e.Err}
}

// Resolver resolves the tag to install for one repository.
type Resolver struct {
	client *Client
	repo   string
}

// NewResolver creates a Resolver for repo ("owner/name"). A nil client uses NewClient().
func NewResolver(client *Client, repo string) *Resolver {
	if client == nil {
		client = NewClient()
	}
	return &Resolver{client: client, repo: repo}
}

// Resolve returns override unchanged when it is non-empty. Otherwise it asks
// the API for the latest release tag. The override is not validated so that
// unreleased or non-semver tags can be pinned.
func (r *Resolver) Resolve(ctx context.Context, override string) (Resolution, error) {
	if override != "" {
		return Resolution{Tag: override, Source: SourceOverride}, nil
	}

	tag, err := r.client.LatestTag(ctx, r.repo)
	if err != nil {
		return Resolution{}, &ResolutionError{Repo: r.repo, Err: err}
	}

	return Resolution{Tag: tag, Source: SourceLatest}, nil
}
