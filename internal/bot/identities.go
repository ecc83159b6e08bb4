package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

type BotIdentity struct {
	UserID      string     `json:"user_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Difficulty  Difficulty `json:"difficulty"`
	AvatarIndex int        `json:"avatar_index"`
}

var builtinIdentities = []BotIdentity{
	{UserID: "bot-easy", Username: "bot_easy", DisplayName: "Rookie Bot", Difficulty: DifficultyEasy},
	{UserID: "bot-hard", Username: "bot_hard", DisplayName: "Grandmaster Bot", Difficulty: DifficultyHard, AvatarIndex: 1},
}

var (
	identityMu sync.RWMutex
	identities = indexIdentities(builtinIdentities)
	loadOnce   sync.Once
	loadErr    error
)

func indexIdentities(list []BotIdentity) map[Difficulty]BotIdentity {
	m := make(map[Difficulty]BotIdentity, len(list))
	for _, identity := range list {
		m[identity.Difficulty] = identity
	}
	return m
}

// LoadIdentities replaces the built-in bot profiles with the ones in the JSON file at path.
// Only the first call reads the file; difficulties missing from it keep their built-in profile.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var loaded []BotIdentity
		if err := json.Unmarshal(data, &loaded); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		identityMu.Lock()
		defer identityMu.Unlock()
		for _, identity := range loaded {
			d, err := ParseDifficulty(string(identity.Difficulty))
			if err != nil || identity.UserID == "" {
				continue
			}
			identity.Difficulty = d
			identities[d] = identity
		}
	})
	return loadErr
}

// IdentityFor returns the profile used for bots of difficulty d.
func IdentityFor(d Difficulty) BotIdentity {
	identityMu.RLock()
	defer identityMu.RUnlock()
	if identity, ok := identities[d]; ok {
		return identity
	}
	return BotIdentity{UserID: fmt.Sprintf("bot-%s", d), DisplayName: "AI Player", Difficulty: d}
}

// IsBot reports whether the given user ID belongs to a bot profile.
func IsBot(userID string) bool {
	identityMu.RLock()
	defer identityMu.RUnlock()
	for _, identity := range identities {
		if identity.UserID == userID {
			return true
		}
	}
	return false
}
