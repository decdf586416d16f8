package accounting

import (
	"fmt"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
)

// FormatSequenceNumber arma un consecutivo <prefijo><año><secuencia:4>, p. ej. MOV20250007.
func FormatSequenceNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s%d%04d", prefix, year, seq)
}

// NextMovementNumber número del siguiente movimiento dado cuántos se crearon ese año.
// Es un conteo al momento de generar: tras eliminaciones puede haber huecos.
func NextMovementNumber(now time.Time, createdThisYear int) string {
	return FormatSequenceNumber(entity.MovementNumberPrefix, now.Year(), createdThisYear+1)
}

// YearStart inicio del año de t en su misma zona horaria.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}
