package entity

import (
	"strings"

	"myshop/pkg/errors"
)

// ConversationKey derives the identifier shared by every message exchanged
// between two participants. The ids are sorted before joining, so the key is
// the same no matter which side computes it. Any alias (such as the support
// contact) must already be resolved to a concrete participant id by the caller.
func ConversationKey(idA, idB string) (string, error) {
	if idA == "" || idB == "" {
		return "", errors.Validation("Both participant ids are required", nil)
	}
	if idA == idB {
		return "", errors.Validation("A conversation requires two distinct participants", nil)
	}

	pair := []string{idA, idB}
	if pair[0] > pair[1] {
		pair[0], pair[1] = pair[1], pair[0]
	}
	return strings.Join(pair, "_"), nil
}
