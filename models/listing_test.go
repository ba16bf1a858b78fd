package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Headshots by Maria", "headshots-by-maria"},
		{"apostrophe and punctuation", "Jenn's Acting Studio!!", "jenns-acting-studio"},
		{"curly apostrophe", "Jenn’s Acting Studio", "jenns-acting-studio"},
		{"repeated separators", "A  --  B", "a-b"},
		{"embedded punctuation stripped without separator", "Act!Now Studio", "actnow-studio"},
		{"slash stripped", "Jo/Anne Casting", "joanne-casting"},
		{"ampersand stripped", "AT&T Kids", "att-kids"},
		{"leading and trailing junk", "  ***Studio One***  ", "studio-one"},
		{"already clean", "studio-one", "studio-one"},
		{"digits kept", "Studio 54 Kids", "studio-54-kids"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestSlugForListingFallback(t *testing.T) {
	id := "abc12345-6789-4def-a012-3456211d834c"

	// Empty names fall back to the last 8 characters of the ID.
	assert.Equal(t, "listing-211d834c", SlugForListing("", id))
	// So do names that slugify to nothing.
	assert.Equal(t, "listing-211d834c", SlugForListing("!!!", id))
	// Short IDs are used whole.
	assert.Equal(t, "listing-834c", SlugForListing("", "834c"))
	// A usable name wins over the fallback.
	assert.Equal(t, "jenns-acting-studio", SlugForListing("Jenn's Acting Studio!!", id))
}

func TestIsPublic(t *testing.T) {
	l := Listing{Status: StatusApproved, Active: true}
	assert.True(t, l.IsPublic())

	l.Active = false
	assert.False(t, l.IsPublic())

	l.Active = true
	l.Status = StatusPending
	assert.False(t, l.IsPublic())

	l.Status = StatusRejected
	assert.False(t, l.IsPublic())
}

func TestIsFeatured(t *testing.T) {
	l := Listing{Plan: PlanFree}
	assert.False(t, l.IsFeatured())

	assert.True(t, (&Listing{Plan: PlanFree, Featured: true}).IsFeatured())
	assert.True(t, (&Listing{Plan: PlanFree, Comped: true}).IsFeatured())
	assert.True(t, (&Listing{Plan: PlanBasic}).IsFeatured())
	assert.True(t, (&Listing{Plan: PlanPro}).IsFeatured())
}
