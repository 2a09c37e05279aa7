package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const serialPrefix = "CERT"

// NewCertificateSerial builds a globally unique certificate serial of the
// form CERT-<millis>-<6 uppercase hex chars>. The millisecond timestamp and
// the random component together keep concurrent issuance collision-free; the
// unique index on the serial column is the final arbiter.
func NewCertificateSerial(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%d-%s", serialPrefix, now.UnixMilli(), random)
}
