package query

import (
	"strings"

	"github.com/politicosbr/camara-client/pkg/model"
	"github.com/politicosbr/camara-client/pkg/normalize"
)

// TallyAttendance counts attendance over event records.
//
// Only events whose lowercased situacao contains "realizada" or "emandada" are
// considered. Their lowercased frequencia must then equal one of the known
// markers exactly; anything else is dropped and counts toward nothing.
// Sessions is the sum of the three counters.
func TallyAttendance(events []normalize.Evento) model.AttendanceStats {
	var stats model.AttendanceStats

	for _, e := range events {
		situacao := strings.ToLower(e.Situacao)
		if !strings.Contains(situacao, "realizada") && !strings.Contains(situacao, "emandada") {
			continue
		}

		switch strings.ToLower(e.Frequencia) {
		case "presentes", "presença":
			stats.Present++
		case "ausência justificada":
			stats.JustifiedAbsences++
		case "ausência":
			stats.UnjustifiedAbsences++
		}
	}

	stats.Sessions = stats.Present + stats.JustifiedAbsences + stats.UnjustifiedAbsences
	return stats
}
