package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCollection is the document store collection holding inventory records
const DefaultCollection = "inventory"

// Record field names as persisted in the document store
const (
	FieldQuantity = "quantity"
	FieldImageURL = "imageUrl"
)

// Item represents one inventory record. Name is the store key.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// ItemFromDocument spreads a stored document into an Item keyed by its store key
func ItemFromDocument(doc Document) Item {
	quantity, _ := doc.Fields.Int(FieldQuantity)
	return Item{
		Name:     doc.Key,
		Quantity: quantity,
		ImageURL: doc.Fields.String(FieldImageURL),
	}
}

// DisplayName upper-cases the first character of name. The stored name is left as is.
func DisplayName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// FilterByName returns the items whose name contains text, ignoring case.
// An empty text matches every item.
func FilterByName(items []Item, text string) []Item {
	needle := strings.ToLower(text)
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// ImagePolicy decides what an add call without an image does to a stored imageUrl
type ImagePolicy string

const (
	// ImagePolicyOverwrite always writes imageUrl, clearing it when no image was uploaded
	ImagePolicyOverwrite ImagePolicy = "overwrite"
	// ImagePolicyPreserve leaves the stored imageUrl alone when no image was uploaded
	ImagePolicyPreserve ImagePolicy = "preserve"
)

// ErrInvalidImagePolicy is returned for a policy name other than overwrite or preserve
var ErrInvalidImagePolicy = errors.New("invalid image policy")

// ParseImagePolicy maps a config value to a policy. Empty means overwrite.
func ParseImagePolicy(value string) (ImagePolicy, error) {
	switch policy := ImagePolicy(strings.ToLower(strings.TrimSpace(value))); policy {
	case "", ImagePolicyOverwrite:
		return ImagePolicyOverwrite, nil
	case ImagePolicyPreserve:
		return ImagePolicyPreserve, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidImagePolicy, value)
	}
}
