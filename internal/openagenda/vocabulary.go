package openagenda

import "strings"

// DefaultKeywords is the fixed vocabulary of cultural-domain terms used to
// partition API queries; the source API does not support unfiltered bulk
// listing.
var DefaultKeywords = []string{
	"cinema", "festival", "concert", "danse", "spectacle", "théâtre", "jazz",
	"exposition", "animation", "rock", "humour", "jeu", "ateliers", "peinture",
	"cirque", "chanson", "lecture", "livre", "photographie", "film", "conte",
	"dessin", "chant", "art", "musique", "poésie",
}

var accentFold = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c", "œ", "oe",
)

// foldKey lowercases and strips accents, used only for duplicate detection
// so the query keywords keep their original accented spelling.
func foldKey(kw string) string {
	return accentFold.Replace(strings.ToLower(strings.TrimSpace(kw)))
}

// NormalizeKeywords trims the vocabulary and collapses entries that differ
// only by casing or accents ("Exposition" vs "exposition", "cinema" vs
// "cinéma"), keeping the first spelling encountered.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		key := foldKey(kw)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}
	return out
}
