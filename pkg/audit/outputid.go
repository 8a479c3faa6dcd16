package audit

import (
	"fmt"

	"github.com/agentstation/rollcall/pkg/constants"
	"github.com/agentstation/rollcall/pkg/resolver"
	"github.com/agentstation/rollcall/pkg/roster"
)

// OutputIDs assigns each entity the ID it is reported under: the roster ID
// when matched, otherwise its first observed ID. When several entities
// share an ID the first keeps it and later ones get -A, -B and so on, in
// entity order. Entities with no ID map to "".
func OutputIDs(entities []*resolver.Entity, rec *roster.Reconciliation) map[string]string {
	out := make(map[string]string, len(entities))
	seen := make(map[string]int)
	for _, e := range entities {
		id := e.PrimaryID()
		if rec != nil {
			if res, ok := rec.Result(e.Ref); ok {
				id = res.CanonicalID()
			}
		}
		if id == "" {
			out[e.Ref] = ""
			continue
		}
		n := seen[id]
		seen[id]++
		out[e.Ref] = suffixed(id, n)
	}
	return out
}

func suffixed(id string, n int) string {
	switch {
	case n == 0:
		return id
	case n <= constants.MaxSuffixes:
		return fmt.Sprintf("%s-%c", id, 'A'+n-1)
	default:
		return fmt.Sprintf("%s-%d", id, n)
	}
}
