package extract

import (
	"crypto/md5" //nolint:gosec // short stable id, not a security boundary
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	projectIDPrefix = "PROJ-"
	unknownIDPrefix = "UNK-"
	projectIDHexLen = 6
)

// ProjectID derives an identifier from the project name. The same name
// always yields the same id. Without a name the id falls back to the
// current unix time, which is not reproducible between runs.
func ProjectID(name *string, now func() time.Time) string {
	if name == nil || *name == "" {
		if now == nil {
			now = time.Now
		}
		return unknownIDPrefix + strconv.FormatInt(now().Unix(), 10)
	}
	sum := md5.Sum([]byte(*name)) //nolint:gosec
	return projectIDPrefix + strings.ToUpper(hex.EncodeToString(sum[:])[:projectIDHexLen])
}
