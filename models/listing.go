package models

import (
	"strings"
	"time"
	"unicode"

	"github.com/lib/pq"
)

// ListingStatus controls whether a listing is visible to the public.
type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
)

// PlanTier is the paid tier a listing is on. Paid tiers get featured placement.
type PlanTier string

const (
	PlanFree  PlanTier = "free"
	PlanBasic PlanTier = "basic"
	PlanPro   PlanTier = "pro"
)

// Listing is a vendor profile in the directory: the unit of search and display.
type Listing struct {
	ID          string         `bson:"id" json:"id" gorm:"column:id;primaryKey"`
	Name        string         `bson:"name" json:"name" gorm:"column:name"`
	Description string         `bson:"description" json:"description" gorm:"column:description"`
	Categories  pq.StringArray `bson:"categories" json:"categories" gorm:"column:categories;type:text[]"`
	AgeRanges   pq.StringArray `bson:"ageRanges" json:"ageRanges" gorm:"column:age_ranges;type:text[]"`

	Website string `bson:"website,omitempty" json:"website,omitempty" gorm:"column:website"`
	Email   string `bson:"email,omitempty" json:"email,omitempty" gorm:"column:email"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty" gorm:"column:phone"`

	City   string `bson:"city,omitempty" json:"city,omitempty" gorm:"column:city"`
	State  string `bson:"state,omitempty" json:"state,omitempty" gorm:"column:state"`
	Region string `bson:"region,omitempty" json:"region,omitempty" gorm:"column:region"`

	Status ListingStatus `bson:"status" json:"status" gorm:"column:status"`
	// Active is independent of moderation status: owners can take an
	// approved listing offline without losing its approval.
	Active   bool     `bson:"active" json:"active" gorm:"column:active"`
	Plan     PlanTier `bson:"plan" json:"plan" gorm:"column:plan"`
	Featured bool     `bson:"featured" json:"featured" gorm:"column:featured"`
	Comped   bool     `bson:"comped" json:"comped" gorm:"column:comped"`

	Claimed bool   `bson:"claimed" json:"claimed" gorm:"column:claimed"`
	OwnerID string `bson:"ownerId,omitempty" json:"ownerId,omitempty" gorm:"column:owner_id"`

	ContactClicks int64  `bson:"contactClicks" json:"contactClicks" gorm:"column:contact_clicks"`
	ImageURL      string `bson:"imageUrl,omitempty" json:"imageUrl,omitempty" gorm:"column:image_url"`

	// Slug is derived from the name and persisted so stores can look it up
	// directly. It is always equal to SlugForListing(Name, ID).
	Slug string `bson:"slug" json:"slug" gorm:"column:slug;index"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt" gorm:"column:updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

// IsPublic reports whether the listing may appear in public query results.
func (l *Listing) IsPublic() bool {
	return l.Status == StatusApproved && l.Active
}

// IsFeatured reports whether the listing gets featured placement. Pure
// function of the listing's own fields.
func (l *Listing) IsFeatured() bool {
	return l.Featured || l.Comped || l.Plan != PlanFree
}

// DeriveSlug recomputes the persisted slug from the current name and ID.
func (l *Listing) DeriveSlug() {
	l.Slug = SlugForListing(l.Name, l.ID)
}

// Slugify converts a display name into its canonical URL slug: lowercase,
// spaces to hyphens, every other character outside [a-z0-9-] stripped,
// repeated hyphens collapsed, leading/trailing hyphens trimmed. Published
// URLs depend on this derivation staying stable.
func Slugify(name string) string {
	name = strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := false
	for _, r := range name {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		}
		// Any other rune is dropped without a separator: "Jenn's" becomes
		// "jenns" and "AT&T" becomes "att".
	}
	return strings.Trim(b.String(), "-")
}

// SlugForListing derives the public URL slug for a listing. When the name
// yields an empty slug, it falls back to "listing-" plus the last 8
// characters of the ID.
func SlugForListing(name, id string) string {
	if s := Slugify(name); s != "" {
		return s
	}
	tail := id
	if len(tail) > 8 {
		tail = tail[len(tail)-8:]
	}
	return "listing-" + tail
}
