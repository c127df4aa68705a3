package classify

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dropship/backend/internal/domain/catalog"
)

// Classifier assigns a catalog category to free-text product data.
// Implementations are pure and swappable; a nil result leaves the
// product uncategorized and never fails the caller.
type Classifier interface {
	Classify(categoryLabel, productName string, categories []catalog.Category) *uuid.UUID
}

// keywordRule maps trigger keywords to a category slug. Rules are
// scanned in order; the first slug with any matching keyword wins.
type keywordRule struct {
	slug     string
	keywords []string
}

// defaultKeywordRules is the stock keyword table
var defaultKeywordRules = []keywordRule{
	{slug: "womens-fashion", keywords: []string{"dress", "women", "skirt", "blouse", "legging", "bra"}},
	{slug: "mens-fashion", keywords: []string{"men", "shirt", "tie", "suit", "beard"}},
	{slug: "jewelry-watches", keywords: []string{"jewelry", "necklace", "bracelet", "ring", "earring", "watch"}},
	{slug: "beauty-health", keywords: []string{"makeup", "beauty", "skin", "hair", "nail", "massage", "lash"}},
	{slug: "pet-supplies", keywords: []string{"pet", "dog", "cat", "puppy", "aquarium", "leash"}},
	{slug: "home-garden", keywords: []string{"kitchen", "home", "garden", "decor", "lamp", "pillow", "mug", "candle"}},
	{slug: "baby-kids", keywords: []string{"baby", "kids", "toddler", "infant", "stroller", "toy"}},
	{slug: "sports-outdoors", keywords: []string{"sport", "fitness", "yoga", "camping", "hiking", "bike", "gym"}},
	{slug: "electronics", keywords: []string{"phone", "charger", "headphone", "earbud", "speaker", "usb", "led", "camera"}},
	{slug: "automotive", keywords: []string{"car", "auto", "vehicle", "motorcycle", "truck"}},
}

// KeywordClassifier classifies products by case-insensitive text
// matching: first against the catalog's own category names, then against
// a static keyword table.
type KeywordClassifier struct {
	rules []keywordRule
}

// NewKeywordClassifier creates a classifier with the stock keyword table
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{rules: defaultKeywordRules}
}

// Classify returns the matched category ID, or nil when nothing matches
func (c *KeywordClassifier) Classify(categoryLabel, productName string, categories []catalog.Category) *uuid.UUID {
	haystack := strings.ToLower(categoryLabel + " " + productName)

	// First pass: the catalog's own category names
	for i := range categories {
		name := strings.ToLower(categories[i].Name)
		if name != "" && strings.Contains(haystack, name) {
			id := categories[i].ID
			return &id
		}
	}

	// Second pass: keyword table, resolved to a category by slug
	bySlug := make(map[string]*uuid.UUID, len(categories))
	for i := range categories {
		id := categories[i].ID
		bySlug[categories[i].Slug] = &id
	}

	for _, rule := range c.rules {
		target, ok := bySlug[rule.slug]
		if !ok {
			continue
		}
		for _, keyword := range rule.keywords {
			if strings.Contains(haystack, keyword) {
				return target
			}
		}
	}

	return nil
}

// Ensure KeywordClassifier implements Classifier
var _ Classifier = (*KeywordClassifier)(nil)
