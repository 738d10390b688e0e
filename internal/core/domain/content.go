package domain

import (
	"encoding/json"
	"time"
)

// ContentKind identifies a keyed-singleton CMS document.
type ContentKind string

const (
	ContentKindBanner      ContentKind = "banner"
	ContentKindAbout       ContentKind = "about"
	ContentKindContact     ContentKind = "contact"
	ContentKindCompanyInfo ContentKind = "company-info"
	ContentKindQuotePrice  ContentKind = "quote-price"
)

// ValidContentKind reports whether kind names a known document.
func ValidContentKind(kind ContentKind) bool {
	switch kind {
	case ContentKindBanner, ContentKindAbout, ContentKindContact,
		ContentKindCompanyInfo, ContentKindQuotePrice:
		return true
	}
	return false
}

// Content is an opaque CMS document stored as-is. The payload has no fixed
// schema and is never interpreted by the server.
type Content struct {
	Kind      ContentKind     `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
