package slug

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

var (
	ErrEmptySlug = errors.New("name produces an empty slug")
	ErrExhausted = errors.New("could not find an available slug")
)

// MaxLength matches the startups.slug column width.
const MaxLength = 50

const maxAttempts = 100

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	invalidRe    = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRunRe  = regexp.MustCompile(`-+`)
	validSlugRe  = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Checker reports whether a slug is already taken. excludeID lets an update
// keep its own slug; pass 0 when creating.
type Checker interface {
	SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error)
}

// Generate derives a URL-safe slug from a free-text name. Returns "" for
// input with no usable characters; callers must treat that as invalid.
func Generate(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = strings.ReplaceAll(s, "&", "-and-")
	s = invalidRe.ReplaceAllString(s, "")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-")
	}
	return s
}

// IsAvailable reports whether candidate can be assigned. A datastore error is
// treated as "not available" so an outage can never hand out a duplicate.
func IsAvailable(ctx context.Context, checker Checker, candidate string, excludeID int64) bool {
	if len(candidate) < 3 {
		return false
	}
	if !validSlugRe.MatchString(candidate) {
		return false
	}

	exists, err := checker.SlugExists(ctx, candidate, excludeID)
	if err != nil {
		log.Printf("slug availability check failed for %q: %v", candidate, err)
		return false
	}
	return !exists
}

// GenerateUnique derives a slug from baseName and appends -1, -2, ... until an
// available one is found. Fails with ErrExhausted after 100 attempts.
func GenerateUnique(ctx context.Context, checker Checker, baseName string, excludeID int64) (string, error) {
	base := Generate(baseName)
	if base == "" {
		return "", ErrEmptySlug
	}

	if IsAvailable(ctx, checker, base, excludeID) {
		return base, nil
	}

	for i := 1; i < maxAttempts; i++ {
		suffix := fmt.Sprintf("-%d", i)
		candidate := base
		if len(candidate)+len(suffix) > MaxLength {
			candidate = strings.TrimRight(candidate[:MaxLength-len(suffix)], "-")
		}
		candidate += suffix

		if IsAvailable(ctx, checker, candidate, excludeID) {
			return candidate, nil
		}
	}

	return "", ErrExhausted
}
