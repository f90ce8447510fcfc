// File: tendencies.go
// Role: The published per-tendency virtue weight table: ten behavioral
// tendencies, each a weighted sum of designated virtues. Domain content,
// not core logic, in the same sense as virtue.DefaultDefinitions' 19 virtue identities —
// illustrative defaults over the default virtue seed, not a tunable.
package gestalt

// virtueWeight pairs a virtue id with its contribution to one tendency.
type virtueWeight struct {
	VirtueID string
	Weight   float64
}

// tendencyOrder fixes the embedding's tendency dimension order.
var tendencyOrder = []string{
	"Resolve", "Vigilance", "Curiosity", "Candor", "Generosity",
	"Steadfastness", "Equanimity", "Grace", "Hopefulness", "Wisdom",
}

// tendencyWeights maps each tendency to the virtues (and weights) it sums.
// Weights within a tendency sum to 1 so every tendency stays commensurable
// with a single virtue's capture share.
var tendencyWeights = map[string][]virtueWeight{
	"Resolve":       {{"V02", 0.6}, {"V04", 0.4}},
	"Vigilance":     {{"V03", 0.7}, {"V05", 0.3}},
	"Curiosity":     {{"V06", 0.6}, {"V08", 0.4}},
	"Candor":        {{"V07", 0.7}, {"V09", 0.3}},
	"Generosity":    {{"V10", 0.6}, {"V12", 0.4}},
	"Steadfastness": {{"V11", 0.6}, {"V13", 0.4}},
	"Equanimity":    {{"V14", 0.6}, {"V16", 0.4}},
	"Grace":         {{"V15", 0.6}, {"V17", 0.4}},
	"Hopefulness":   {{"V18", 1.0}},
	"Wisdom":        {{"V19", 1.0}},
}

// computeTendencies derives every tendency as a weighted sum over signature.
func computeTendencies(signature map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(tendencyOrder))
	for _, name := range tendencyOrder {
		var sum float64
		for _, vw := range tendencyWeights[name] {
			sum += vw.Weight * signature[vw.VirtueID]
		}
		out[name] = sum
	}
	return out
}
