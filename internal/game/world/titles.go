package world

// Title is an honor a run can earn once.
type Title struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

const (
	TitleAshenSeeker = "ashen_seeker"
	TitleUnscarred   = "unscarred"
	TitleFirstFlame  = "first_flame"
)

// Titles lists every title in display order.
var Titles = []Title{
	{ID: TitleAshenSeeker, Name: "Ashen Seeker", Description: "Found the hidden chamber"},
	{ID: TitleUnscarred, Name: "Unscarred", Description: "Completed a run with zero scars"},
	{ID: TitleFirstFlame, Name: "First Flame", Description: "Played during the demo period"},
}

// LookupTitle returns the title with id.
func LookupTitle(id string) (Title, bool) {
	for _, t := range Titles {
		if t.ID == id {
			return t, true
		}
	}
	return Title{}, false
}

// HasTitle reports whether the run holds id.
func (r *Run) HasTitle(id string) bool {
	for _, t := range r.Titles {
		if t == id {
			return true
		}
	}
	return false
}

// Award gives the run title id. It reports false for unknown ids and for
// titles already held.
func (r *Run) Award(id string) (Title, bool) {
	t, ok := LookupTitle(id)
	if !ok || r.HasTitle(id) {
		return Title{}, false
	}
	r.Titles = append(r.Titles, id)
	return t, true
}
