package datahash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/asadbekGo/upgrade-list-sdk/tools/united"
)

func HashSHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GenerateDataHash hashes the JSON encoding of generated.
func GenerateDataHash(generated interface{}) (string, error) {
	datahashByte, err := json.Marshal(generated)
	if err != nil {
		return "", err
	}
	return HashSHA256(datahashByte), nil
}

// Fingerprint hashes the decoded data rather than the raw body, so upstream key order
// and whitespace do not change it.
func Fingerprint(data *united.AvailabilityData) (string, error) {
	return GenerateDataHash(NewSnapshot(data))
}

// EntityTag is the strong HTTP entity tag for one rendering of a fingerprint.
func EntityTag(format, fingerprint string) string {
	return `"` + format + "-" + fingerprint + `"`
}

// MatchEntityTag reports whether an If-None-Match header value names tag.
func MatchEntityTag(ifNoneMatch, tag string) bool {
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}
