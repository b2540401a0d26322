package classifier

import "fmt"

// Style is an attachment style as shown to the user.
type Style string

const (
	StyleAnxious      Style = "ANSIOSO"
	StyleSecure       Style = "SEGURO"
	StyleDisorganized Style = "DESORGANIZADO"
	StyleAvoidant     Style = "EVITATIVO"
)

// Styles in tie-break order.
var Styles = []Style{StyleAnxious, StyleSecure, StyleDisorganized, StyleAvoidant}

// Answers are the captured choices ("A".."D") of the questionnaire.
type Answers struct {
	Q1, Q2, Q3 string
}

// Scorer turns questionnaire answers into an attachment style.
type Scorer interface {
	Classify(a Answers) (Style, error)
}

var lastQuestionStyle = map[string]Style{
	"A": StyleAnxious,
	"B": StyleSecure,
	"C": StyleDisorganized,
	"D": StyleAvoidant,
}

// LastQuestionScorer classifies from the Q3 answer alone.
type LastQuestionScorer struct{}

func (LastQuestionScorer) Classify(a Answers) (Style, error) {
	style, ok := lastQuestionStyle[a.Q3]
	if !ok {
		return "", fmt.Errorf("invalid answer %q", a.Q3)
	}
	return style, nil
}

type weights map[Style]int

// weightTable[question][option] lists the points each option gives to every style.
var weightTable = [3]map[string]weights{
	{ // Q1: partner takes long to reply
		"A": {StyleAnxious: 3, StyleDisorganized: 1},
		"B": {StyleSecure: 3},
		"C": {StyleDisorganized: 3, StyleAnxious: 1},
		"D": {StyleAvoidant: 3},
	},
	{ // Q2: partner wants more closeness
		"A": {StyleAnxious: 2, StyleSecure: 1},
		"B": {StyleSecure: 3},
		"C": {StyleDisorganized: 3, StyleAvoidant: 1},
		"D": {StyleAvoidant: 3, StyleDisorganized: 1},
	},
	{ // Q3: after an argument
		"A": {StyleAnxious: 3},
		"B": {StyleSecure: 3},
		"C": {StyleDisorganized: 3},
		"D": {StyleAvoidant: 3},
	},
}

// WeightedScorer sums per-option points over all three answers. Ties go to
// the style the Q3 answer maps to, then to the order of Styles.
type WeightedScorer struct{}

func (WeightedScorer) Classify(a Answers) (Style, error) {
	totals := make(map[Style]int, len(Styles))
	for i, answer := range []string{a.Q1, a.Q2, a.Q3} {
		w, ok := weightTable[i][answer]
		if !ok {
			return "", fmt.Errorf("invalid answer %q for question %d", answer, i+1)
		}
		for style, points := range w {
			totals[style] += points
		}
	}

	best := lastQuestionStyle[a.Q3]
	for _, style := range Styles {
		if totals[style] > totals[best] {
			best = style
		}
	}
	return best, nil
}
