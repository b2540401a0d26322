package dialogue

import (
	"fmt"

	"github.com/xaenox/eldric/internal/classifier"
)

const menuHTML = `<ul>
<li><strong>A)</strong> Hacer el test de estilos de apego</li>
<li><strong>B)</strong> Hablar de lo que sentimos</li>
<li><strong>C)</strong> Conocer los estilos de apego</li>
</ul>
<p>Responde con <strong>A</strong>, <strong>B</strong> o <strong>C</strong>.</p>`

const welcomeHTML = `<p>¡Hola! Soy <strong>Eldric</strong>, tu acompañante para entender cómo te vinculas en tus relaciones.</p>
<p>¿Qué te gustaría hacer hoy?</p>
` + menuHTML

const restartHTML = `<p>Perfecto, empecemos con el test. Antes, elige qué quieres hacer:</p>
` + menuHTML

const helloHTML = `<p>¡Hola! ¿Cómo te sientes hoy? Puedes contarme lo que quieras, o escribir <strong>hacer test</strong> para descubrir tu estilo de apego.</p>`

const question1HTML = `<p><strong>Pregunta 1 de 3.</strong> Cuando tu pareja tarda mucho en responder un mensaje, normalmente...</p>
<ul>
<li><strong>A)</strong> Me preocupo y pienso que algo va mal entre nosotros.</li>
<li><strong>B)</strong> Supongo que está ocupada y sigo con mi día.</li>
<li><strong>C)</strong> Me preocupo, pero cuando responde prefiero no contestar.</li>
<li><strong>D)</strong> Casi no lo noto, me gusta tener mi propio espacio.</li>
</ul>`

const question2HTML = `<p><strong>Pregunta 2 de 3.</strong> Cuando alguien quiere más cercanía contigo...</p>
<ul>
<li><strong>A)</strong> Me encanta, aunque temo que luego se aleje.</li>
<li><strong>B)</strong> Me siento cómodo y lo disfruto.</li>
<li><strong>C)</strong> Lo deseo y a la vez me asusta, no sé cómo reaccionar.</li>
<li><strong>D)</strong> Me agobio y necesito poner distancia.</li>
</ul>`

const question3HTML = `<p><strong>Pregunta 3 de 3.</strong> Después de una discusión importante...</p>
<ul>
<li><strong>A)</strong> Necesito arreglarlo cuanto antes, no soporto la incertidumbre.</li>
<li><strong>B)</strong> Hablamos con calma cuando los dos estamos listos.</li>
<li><strong>C)</strong> Paso de querer acercarme a querer huir.</li>
<li><strong>D)</strong> Me cierro y prefiero no volver a tocar el tema.</li>
</ul>`

const talkHTML = `<p>Me parece genial que quieras hablar de lo que sentimos. Aquí puedes expresarte sin juicios.</p>
<p>¿Qué está pasando últimamente en tu vida o en tus relaciones que te gustaría compartir?</p>`

const stylesHTML = `<p>Los estilos de apego describen cómo nos vinculamos con las personas importantes de nuestra vida:</p>
<ul>
<li><strong>Seguro</strong>: te sientes cómodo con la intimidad y con la independencia.</li>
<li><strong>Ansioso</strong>: buscas mucha cercanía y temes el abandono o el rechazo.</li>
<li><strong>Evitativo</strong>: valoras mucho tu independencia y te cuesta depender de otros.</li>
<li><strong>Desorganizado</strong>: deseas la cercanía pero también te asusta, y oscilas entre acercarte y alejarte.</li>
</ul>
<p>Si quieres descubrir el tuyo, escribe <strong>hacer test</strong>.</p>`

var styleDescriptions = map[classifier.Style]string{
	classifier.StyleAnxious: "Sueles necesitar confirmación de que la otra persona sigue ahí. La distancia o el silencio " +
		"te generan inquietud y tiendes a preocuparte por el abandono. Aprender a calmarte y a pedir lo que necesitas con claridad te ayudará mucho.",
	classifier.StyleSecure: "Te sientes cómodo con la cercanía y también con el espacio personal. Confías en los demás y " +
		"puedes expresar lo que necesitas sin miedo excesivo. Es una base muy valiosa para relaciones sanas.",
	classifier.StyleDisorganized: "Deseas la cercanía pero al mismo tiempo te asusta. Puedes oscilar entre buscar a la otra " +
		"persona y alejarte de ella. Reconocer estos vaivenes con compasión es el primer paso para sentirte más en calma.",
	classifier.StyleAvoidant: "Valoras mucho tu independencia y te cuesta apoyarte en los demás. Cuando una relación se " +
		"vuelve muy intensa, tiendes a tomar distancia. Abrirte poco a poco puede ayudarte a disfrutar de vínculos más profundos.",
}

func resultHTML(style classifier.Style) string {
	return fmt.Sprintf(`<p>¡Gracias por responder! Según tus respuestas, tu estilo de apego predominante es: <strong>%s</strong></p>
<p>%s</p>
<p>Recuerda que el apego no es una etiqueta fija: cambia con las experiencias y con relaciones que te hacen bien. Si quieres, cuéntame qué te ha parecido y seguimos conversando.</p>`,
		style, styleDescriptions[style])
}
