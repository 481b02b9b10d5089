package redis

import (
	"fmt"

	"github.com/mcoot/wordlobby/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "wordlobby"

func sessionKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// sessionKeyPattern matches every session key for SCAN
func sessionKeyPattern() string {
	return fmt.Sprintf("%s:session:*", keyPrefix)
}

// sessionIDFromKey strips the prefix back off a scanned key
func sessionIDFromKey(key string) model.PlayerID {
	return model.PlayerID(key[len(keyPrefix)+len(":session:"):])
}

func lobbyKey(id model.LobbyID) string {
	return fmt.Sprintf("%s:lobby:%s", keyPrefix, id)
}

func resultKey(id model.LobbyID) string {
	return fmt.Sprintf("%s:result:%s", keyPrefix, id)
}

// dictionaryKey is a LIST so word order (and therefore random picks) is stable
func dictionaryKey() string {
	return fmt.Sprintf("%s:dictionary", keyPrefix)
}
