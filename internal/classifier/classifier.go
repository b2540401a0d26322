package classifier

import (
	"strings"

	"github.com/samber/lo"
)

// Category tags. They are also the values stored in eldric_knowledge.tags.
const (
	TagAnxious       = "anxious"
	TagAvoidant      = "avoidant"
	TagSecure        = "secure"
	TagDisorganized  = "disorganized"
	TagRelationship  = "relationship"
	TagCommunication = "communication"
	TagConflict      = "conflict"
	TagTrust         = "trust"
	TagEmotions      = "emotions"
)

// MaxKeywords caps the number of tags returned by ExtractKeywords.
const MaxKeywords = 3

type category struct {
	tag   string
	words []string
}

// Surface words per category, scanned in this order.
var categories = []category{
	{TagAnxious, []string{"ansiedad", "ansios", "miedo", "abandon", "preocup", "celos", "insegur", "rechaz", "anxiety"}},
	{TagAvoidant, []string{"distancia", "mi espacio", "independ", "alejar", "alejo", "frío", "fría", "no necesito a nadie", "agobi"}},
	{TagSecure, []string{"tranquil", "estable", "equilibr", "sano", "sana", "seguridad"}},
	{TagDisorganized, []string{"confundid", "contradic", "caos", "caótic", "trauma", "me acerco y me alejo"}},
	{TagRelationship, []string{"pareja", "relación", "relacion", "novio", "novia", "esposo", "esposa", "amor", "relationship", "partner"}},
	{TagCommunication, []string{"hablar", "comunica", "decir", "conversa", "expresar", "escuch", "communication"}},
	{TagConflict, []string{"pelea", "pelear", "discut", "discusión", "conflict", "enoj", "fight"}},
	{TagTrust, []string{"confianza", "confiar", "confío", "infiel", "engañ", "mentira", "trust"}},
	{TagEmotions, []string{"siento", "sentir", "emocion", "triste", "feliz", "llor", "dolor", "sentimiento", "emotion", "feel"}},
}

// Explicit style names, re-scanned after the topical pass.
var styleNames = []category{
	{TagAnxious, []string{"apego ansioso", "ansiosa", "ansioso", "anxious"}},
	{TagAvoidant, []string{"apego evitativo", "evitativ", "avoidant"}},
	{TagSecure, []string{"apego seguro", "secure"}},
	{TagDisorganized, []string{"apego desorganizado", "desorganizad", "disorganized"}},
}

// ExtractKeywords maps an utterance to at most MaxKeywords distinct category
// tags, in first-hit order. It is deterministic and has no side effects.
func ExtractKeywords(content string) []string {
	content = strings.ToLower(content)

	tags := make([]string, 0, MaxKeywords)
	tags = appendHits(tags, content, categories)
	tags = appendHits(tags, content, styleNames)

	tags = lo.Uniq(tags)
	if len(tags) > MaxKeywords {
		tags = tags[:MaxKeywords]
	}
	return tags
}

func appendHits(tags []string, content string, cats []category) []string {
	for _, c := range cats {
		for _, word := range c.words {
			if strings.Contains(content, word) {
				tags = append(tags, c.tag)
				break
			}
		}
	}
	return tags
}

// Vocabulary lists every tag ExtractKeywords may return.
func Vocabulary() []string {
	return lo.Map(categories, func(c category, _ int) string { return c.tag })
}
