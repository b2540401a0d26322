package dialogue

import (
	"github.com/xaenox/eldric/internal/classifier"
	"github.com/xaenox/eldric/internal/models"
)

const greetingPhrase = "saludo inicial"

// restartPhrases reset the LLM session and (re)open the greeting menu.
var restartPhrases = map[string]bool{
	greetingPhrase:         true,
	"reiniciar":            true,
	"reset":                true,
	"empezar de nuevo":     true,
	"nuevo test":           true,
	"hacer test":           true,
	"quiero hacer el test": true,
}

// helloWords must appear as whole words: "holanda" or "hijo" are not greetings.
var helloWords = []string{"hola", "buenos días", "buenas", "hey", "hi", "hello"}

type transitionKey struct {
	stage  models.Stage
	answer string
}

// transition updates the state for an answer and renders the reply.
type transition struct {
	apply func(st *models.TestState, answer string)
	reply func(c *Controller, st *models.TestState) string
}

var transitions = buildTransitions()

func buildTransitions() map[transitionKey]transition {
	static := func(html string) func(*Controller, *models.TestState) string {
		return func(*Controller, *models.TestState) string { return html }
	}

	t := map[transitionKey]transition{
		{models.StageGreeting, "A"}: {
			apply: func(st *models.TestState, _ string) { st.State = models.StageQ1 },
			reply: static(question1HTML),
		},
		{models.StageGreeting, "B"}: {
			apply: func(st *models.TestState, _ string) { st.State = models.StageNone },
			reply: static(talkHTML),
		},
		{models.StageGreeting, "C"}: {
			apply: func(st *models.TestState, _ string) { st.State = models.StageNone },
			reply: static(stylesHTML),
		},
	}

	for _, answer := range []string{"A", "B", "C", "D"} {
		t[transitionKey{models.StageQ1, answer}] = transition{
			apply: func(st *models.TestState, a string) {
				st.State = models.StageQ2
				st.LastChoice = ""
				st.Q1 = a
			},
			reply: static(question2HTML),
		}
		t[transitionKey{models.StageQ2, answer}] = transition{
			apply: func(st *models.TestState, a string) {
				st.State = models.StageQ3
				st.Q2 = a
			},
			reply: static(question3HTML),
		}
		t[transitionKey{models.StageQ3, answer}] = transition{
			apply: func(st *models.TestState, a string) {
				st.State = models.StageNone
				st.LastChoice = a
				st.Q3 = a
			},
			reply: func(c *Controller, st *models.TestState) string {
				return resultHTML(c.classify(st))
			},
		}
	}
	return t
}

// classify falls back to the Q3 mapping when the configured scorer cannot
// use the stored answers.
func (c *Controller) classify(st *models.TestState) classifier.Style {
	answers := classifier.Answers{Q1: st.Q1, Q2: st.Q2, Q3: st.Q3}
	style, err := c.scorer.Classify(answers)
	if err == nil {
		return style
	}
	style, _ = classifier.LastQuestionScorer{}.Classify(answers)
	return style
}
