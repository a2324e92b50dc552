package normalize

import (
	"strings"
	"unicode"

	"github.com/politicosbr/camara-client/pkg/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s and strips diacritics so "Exercício" matches "exercicio".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// LegislatorStatus maps an upstream situacao value.
// Missing or unrecognized values mean the upstream did not say; they map to InOffice.
func LegislatorStatus(s string) model.LegislatorStatus {
	switch fold(s) {
	case "exercicio":
		return model.StatusInOffice
	case "afastado":
		return model.StatusOnLeave
	case "licenciado":
		return model.StatusLicensed
	default:
		return model.StatusInOffice
	}
}

// ProposalStatus maps an upstream proposal status value.
// Missing or unrecognized values map to InProgress.
func ProposalStatus(s string) model.ProposalStatus {
	switch fold(s) {
	case "aprovada":
		return model.ProposalApproved
	case "em tramitacao", "tramitacao":
		return model.ProposalInProgress
	case "arquivada":
		return model.ProposalArchived
	case "rejeitada":
		return model.ProposalRejected
	default:
		return model.ProposalInProgress
	}
}
