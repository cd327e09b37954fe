package shared

import (
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// PropertyIDs is the ingestion set used when INGEST_PROPERTY_IDS is unset.
var PropertyIDs = []int64{
	1641879, 317597, 1202743, 1037179, 1154868,
	1270324, 1305326, 1617655, 1975211, 2017823,
}

// ParsePropertyIDs reads a comma separated id list. Blank input yields the
// default set; bad tokens are skipped.
func ParsePropertyIDs(s string) []int64 {
	if strings.TrimSpace(s) == "" {
		return slices.Clone(PropertyIDs)
	}
	var out []int64
	seen := make(map[int64]struct{})
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || id <= 0 {
			log.Warn().Str("token", tok).Msg("skipping invalid property id")
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
