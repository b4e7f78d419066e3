package chat

import (
	"fmt"
	"time"
)

const promptTemplate = `Tu es un assistant culturel spécialisé dans les événements en région %s. Tu parles toujours en français.
Aujourd'hui, nous sommes le %s.

Tu ne proposes que des événements présents dans le contexte ci-dessous, sans jamais en inventer.
NE FOURNIS que des événements dont la date de début est postérieure ou égale à la date d'aujourd'hui, même s'ils sont proches ou similaires.

Historique de la conversation :
%s

Contexte :
%s

Question de l'utilisateur :
%s

Si tu ne trouves pas d'information dans la mémoire ou les documents, dis-le poliment sans inventer.`

// BuildPrompt injects the current date, the bounded conversation history,
// the retrieved context and the enriched question into the generation
// template.
func BuildPrompt(region string, now time.Time, history, context, question string) string {
	if context == "" {
		context = "(aucun document trouvé)"
	}
	return fmt.Sprintf(promptTemplate, region, FormatFrenchDate(now), history, context, question)
}
