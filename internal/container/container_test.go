package container

import (
	"testing"

	"github.com/ZilDuck/lazy-marketplace/internal/access"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerHex  = "0x0000000000000000000000000000000000000ad1"
	signerHex = "0x0000000000000000000000000000000000005160"
)

func setEnv(t *testing.T) {
	t.Setenv("ENV", "dev")
	t.Setenv("OWNER_ADDRESS", ownerHex)
	t.Setenv("BACKEND_SIGNER", signerHex)
	t.Setenv("FEE_WALLETS", "0x00000000000000000000000000000000000000fa")
	t.Setenv("AVAILABLE_COLLECTIONS", "0x0000000000000000000000000000000000005aff")
	t.Setenv("ELASTIC_SEARCH_HOSTS", "")
	t.Setenv("SQS_QUEUE_URL", "")
}

func TestContainer_BuildsDaemonWithoutOptionalServices(t *testing.T) {
	setEnv(t)

	c, err := NewContainer()
	require.NoError(t, err)
	defer func() { _ = c.Delete() }()

	_, err = c.SafeGetDaemon()
	require.NoError(t, err)

	cfg := c.GetMarketplace().Config()
	assert.Equal(t, common.HexToAddress(ownerHex), cfg.Owner)
	assert.Equal(t, common.HexToAddress(signerHex), cfg.BackendSigner)
	assert.Len(t, cfg.FeeWallets, 1)

	staff := c.GetStaff()
	assert.True(t, staff.HasRole(access.MinterRole, common.HexToAddress(ownerHex)))
	assert.True(t, staff.HasRole(access.LockerRole, common.HexToAddress(signerHex)))

	assert.Same(t, c.GetLedger(), c.GetLedger())
	assert.NotNil(t, c.GetRpcServer())
}

func TestContainer_BackendSignerKeyWins(t *testing.T) {
	setEnv(t)
	// hardhat account 0
	t.Setenv("BACKEND_SIGNER_KEY", "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")

	c, err := NewContainer()
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), c.GetMarketplace().Config().BackendSigner)
}

func TestContainer_InvalidAddress(t *testing.T) {
	setEnv(t)
	t.Setenv("OWNER_ADDRESS", "not-an-address")

	c, err := NewContainer()
	require.NoError(t, err)

	_, err = c.SafeGetDaemon()
	assert.ErrorContains(t, err, "OWNER_ADDRESS")
}
