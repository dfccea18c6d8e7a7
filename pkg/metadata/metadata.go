// Package metadata signs generated reports with a provenance block and verifies them.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TagStart is the start of the metadata block.
	TagStart = "<!-- METADATA_START"
	// TagEnd is the end of the metadata block.
	TagEnd = "METADATA_END -->"
)

// Metadata verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata describes where a report's numbers came from.
type Metadata struct {
	Source      string
	Resource    string
	Records     int
	Limit       int
	FetchedAt   time.Time
	GeneratedAt time.Time
	Hash        string
}

// metadataRegex matches the entire metadata block including tags.
var metadataRegex = regexp.MustCompile(`(?s)<!--\s*METADATA_START\s*\n(.*?)\n\s*METADATA_END\s*-->`)

// Extract removes the metadata block from content and returns both.
// The cleaned content is what gets hashed.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	clean := strings.TrimRight(metadataRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, clean
	}

	meta := &Metadata{}

	for _, line := range strings.Split(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		val = strings.TrimSpace(val)

		switch strings.TrimSpace(key) {
		case "SOURCE":
			meta.Source = val
		case "RESOURCE":
			meta.Resource = val
		case "RECORDS":
			meta.Records, _ = strconv.Atoi(val)
		case "LIMIT":
			meta.Limit, _ = strconv.Atoi(val)
		case "FETCHED_AT":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.FetchedAt = t
			}
		case "GENERATED_AT":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.GeneratedAt = t
			}
		case "HASH":
			meta.Hash = val
		}
	}

	return meta, clean
}

// CalculateHash computes the SHA-256 of the content without its metadata block.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Sign replaces any metadata block with a fresh one describing meta.
// A zero GeneratedAt is stamped with the current time. FETCHED_AT is written
// only when FetchedAt is set.
func Sign(content string, meta Metadata) string {
	_, clean := Extract(content)

	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}

	var fetched string
	if !meta.FetchedAt.IsZero() {
		fetched = "FETCHED_AT: " + meta.FetchedAt.UTC().Format(time.RFC3339) + "\n"
	}

	block := fmt.Sprintf("\n\n%s\nSOURCE: %s\nRESOURCE: %s\nRECORDS: %d\nLIMIT: %d\n%sGENERATED_AT: %s\nHASH: %s\n%s",
		TagStart,
		meta.Source,
		meta.Resource,
		meta.Records,
		meta.Limit,
		fetched,
		meta.GeneratedAt.UTC().Format(time.RFC3339),
		CalculateHash(clean),
		TagEnd,
	)

	return clean + block
}

// Verify checks that content matches the hash in its metadata.
func Verify(content string) (*Metadata, error) {
	meta, clean := Extract(content)
	if meta == nil {
		return nil, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return meta, ErrNoHashFound
	}

	if calculated := CalculateHash(clean); calculated != meta.Hash {
		return meta, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return meta, nil
}
