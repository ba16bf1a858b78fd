package models

// Category is one entry in the directory's fixed service taxonomy.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Categories is the directory taxonomy. Listing category filters are matched
// against these names.
var Categories = []Category{
	{Name: "Acting Coaches", Slug: "acting-coaches"},
	{Name: "Headshot Photographers", Slug: "headshot-photographers"},
	{Name: "Talent Agents", Slug: "talent-agents"},
	{Name: "Talent Managers", Slug: "talent-managers"},
	{Name: "Demo Reel Editors", Slug: "demo-reel-editors"},
	{Name: "Self-Tape Studios", Slug: "self-tape-studios"},
	{Name: "Vocal Coaches", Slug: "vocal-coaches"},
	{Name: "Dance Studios", Slug: "dance-studios"},
	{Name: "Casting Workshops", Slug: "casting-workshops"},
	{Name: "Entertainment Lawyers", Slug: "entertainment-lawyers"},
}

// AgeRanges are the age bands a listing can serve.
var AgeRanges = []string{"0-4", "5-8", "9-12", "13-17", "18+"}

// CategoryBySlug looks a category up by its URL slug.
func CategoryBySlug(slug string) (Category, bool) {
	for _, c := range Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}
