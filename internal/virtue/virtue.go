// Package virtue holds Franklin's fixed catalog of thirteen virtues.
package virtue

import "strings"

// Count is the number of virtues in the catalog.
const Count = 13

// Virtue is one entry of the catalog.
type Virtue struct {
	ID      int
	Title   string
	Precept string
}

// Franklin's wording from the Autobiography, in the order he practiced them.
var catalog = [Count]Virtue{
	{ID: 1, Title: "Temperance", Precept: "Eat not to dullness; drink not to elevation."},
	{ID: 2, Title: "Silence", Precept: "Speak not but what may benefit others or yourself; avoid trifling conversation."},
	{ID: 3, Title: "Order", Precept: "Let all your things have their places; let each part of your business have its time."},
	{ID: 4, Title: "Resolution", Precept: "Resolve to perform what you ought; perform without fail what you resolve."},
	{ID: 5, Title: "Frugality", Precept: "Make no expense but to do good to others or yourself; i.e., waste nothing."},
	{ID: 6, Title: "Industry", Precept: "Lose no time; be always employed in something useful; cut off all unnecessary actions."},
	{ID: 7, Title: "Sincerity", Precept: "Use no hurtful deceit; think innocently and justly, and, if you speak, speak accordingly."},
	{ID: 8, Title: "Justice", Precept: "Wrong none by doing injuries, or omitting the benefits that are your duty."},
	{ID: 9, Title: "Moderation", Precept: "Avoid extremes; forbear resenting injuries so much as you think they deserve."},
	{ID: 10, Title: "Cleanliness", Precept: "Tolerate no uncleanliness in body, clothes, or habitation."},
	{ID: 11, Title: "Tranquility", Precept: "Be not disturbed at trifles, or at accidents common or unavoidable."},
	{ID: 12, Title: "Chastity", Precept: "Rarely use venery but for health or offspring, never to dullness, weakness, or the injury of your own or another's peace or reputation."},
	{ID: 13, Title: "Humility", Precept: "Imitate Jesus and Socrates."},
}

// All returns the catalog in canonical order.
func All() []Virtue {
	out := make([]Virtue, Count)
	copy(out, catalog[:])
	return out
}

// Valid reports whether id names a catalog entry.
func Valid(id int) bool {
	return id >= 1 && id <= Count
}

// Get looks up a virtue by id.
func Get(id int) (Virtue, bool) {
	if !Valid(id) {
		return Virtue{}, false
	}
	return catalog[id-1], true
}

// Lookup resolves a virtue by case-insensitive title.
func Lookup(title string) (Virtue, bool) {
	title = strings.TrimSpace(title)
	for _, v := range catalog {
		if strings.EqualFold(v.Title, title) {
			return v, true
		}
	}
	return Virtue{}, false
}
