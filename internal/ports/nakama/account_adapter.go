package nakama

import (
	"context"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaAccountAdapter implements ports.AccountPort on the Nakama account API.
type NakamaAccountAdapter struct {
	nk runtime.NakamaModule
}

func NewNakamaAccountAdapter(nk runtime.NakamaModule) *NakamaAccountAdapter {
	return &NakamaAccountAdapter{nk: nk}
}

// SetDisplayName updates only the display name; empty fields are left unchanged by Nakama.
func (a *NakamaAccountAdapter) SetDisplayName(ctx context.Context, userID, displayName string) error {
	return a.nk.AccountUpdateId(ctx, userID, "", nil, displayName, "", "", "", "")
}
