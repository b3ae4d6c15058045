package localstore

import "fmt"

const keyPrefix = "closet"

// Keys builds the cache keys for one user. Two accounts on the same device
// never read each other's entries.
type Keys struct {
	userID string
}

func KeysFor(userID string) Keys {
	if userID == "" {
		userID = "anonymous"
	}
	return Keys{userID: userID}
}

func (k Keys) UserID() string { return k.userID }

func (k Keys) GeneratedAvatar() string { return k.key("generated-avatar") }

func (k Keys) LastGeneratedOutfit() string { return k.key("last-generated-outfit") }

func (k Keys) RefreshOutfits() string { return k.key("refresh-outfits") }

func (k Keys) key(name string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, k.userID, name)
}
