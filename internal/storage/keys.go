package storage

import "fmt"

// DefaultKeyPrefix namespaces every Redis key.
const DefaultKeyPrefix = "t2048"

// scoresKey returns the sorted set ranking score IDs. Members are stored
// with the negated score so an ascending range yields the best first, and
// equal scores fall back to member order, which is ID order.
func scoresKey(prefix string) string {
	return fmt.Sprintf("%s:scores", prefix)
}

// scoreKey returns the key holding one ScoreEntry as JSON.
func scoreKey(prefix string, id int64) string {
	return fmt.Sprintf("%s:score:%d", prefix, id)
}

// scoreSeqKey returns the counter used to allocate score IDs.
func scoreSeqKey(prefix string) string {
	return fmt.Sprintf("%s:score_seq", prefix)
}

// gameKey returns the key holding a save slot snapshot as JSON.
func gameKey(prefix, slot string) string {
	return fmt.Sprintf("%s:game:%s", prefix, slot)
}

// scoreMember formats a score ID as a fixed-width sorted set member so
// lexical order matches numeric order.
func scoreMember(id int64) string {
	return fmt.Sprintf("%020d", id)
}
