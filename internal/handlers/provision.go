package handlers

import (
	"context"
	"net/http"
	"os"
	"strconv"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gin-gonic/gin"

	"ammcontrol/internal/amm"
	"ammcontrol/internal/models"
	dbconfig "ammcontrol/pkg/config"
	"ammcontrol/pkg/solana"
)

func newRPCClient() *rpc.Client {
	endpoint := os.Getenv("RPC_ENDPOINT")
	if endpoint == "" {
		endpoint = rpc.MainNetBeta_RPC
	}
	return rpc.New(endpoint)
}

type vaultPlanView struct {
	VaultAddress string `json:"vault_address"`
	StateBefore  string `json:"state_before"`
	StepCount    int    `json:"step_count"`
	Error        string `json:"error,omitempty"`
}

// ProvisionPoolVaults classifies both vault accounts of a pool and returns
// the remaining custody steps needed to bring them to ready.
// 只产出计划并留痕，不发送交易。
func ProvisionPoolVaults(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var pool models.PoolRecord
	if err := dbconfig.DB.First(&pool, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	client := newRPCClient()
	ctx := c.Request.Context()

	rent, err := solana.GetRentFloor(ctx, client, solana.SplAccountSpace)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	prov := &amm.VaultProvisioner{
		Allocator: solana.SYSTEM_PROGRAM_ID,
		Space:     solana.SplAccountSpace,
		Rent:      rent,
	}

	authority, err := solanago.PublicKeyFromBase58(pool.Authority)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	sides := []struct {
		vault string
		mint  string
		index uint8
	}{
		{pool.Vault0, pool.Mint0, 0},
		{pool.Vault1, pool.Mint1, 1},
	}

	results := make([]vaultPlanView, 0, 2)
	for _, side := range sides {
		view := provisionVault(ctx, client, prov, &pool, authority, side.vault, side.mint, side.index)
		results = append(results, view)
	}

	c.JSON(http.StatusOK, gin.H{"pool_address": pool.PoolAddress, "vaults": results})
}

func provisionVault(
	ctx context.Context,
	client *rpc.Client,
	prov *amm.VaultProvisioner,
	pool *models.PoolRecord,
	authority solanago.PublicKey,
	vaultAddress, mintAddress string,
	side uint8,
) vaultPlanView {
	result := vaultPlanView{VaultAddress: vaultAddress}

	logEntry := func(state string, stepCount int, provErr error) {
		entry := models.VaultProvisionLog{
			PoolAddress:  pool.PoolAddress,
			VaultAddress: vaultAddress,
			StateBefore:  state,
			StepCount:    stepCount,
			Succeeded:    provErr == nil,
		}
		if provErr != nil {
			entry.Error = provErr.Error()
		}
		dbconfig.DB.Create(&entry)
	}

	vault, err := solanago.PublicKeyFromBase58(vaultAddress)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	mint, err := solanago.PublicKeyFromBase58(mintAddress)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	poolKey, err := solanago.PublicKeyFromBase58(pool.PoolAddress)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	// 托管程序取 mint 的实际所有者
	mintView, err := solana.LoadAccountView(ctx, client, mint)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	custodyProgram, ok := solana.CustodyProgramForMint(mintView.Owner)
	if !ok {
		result.Error = amm.ErrInvalidTreasury.Error()
		logEntry("unknown", 0, amm.ErrInvalidTreasury)
		return result
	}

	view, err := solana.LoadAccountView(ctx, client, vault)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	seed := solana.SEED_VAULT0
	if side == 1 {
		seed = solana.SEED_VAULT1
	}
	pda, err := solana.GetVaultPDA(poolKey, side)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	signer := &amm.DerivedSigner{Seed: seed, Pool: poolKey, Bump: pda.Bump}

	state, steps, provErr := prov.Provision(view, custodyProgram, mint, authority, authority, signer)
	result.StateBefore = state.String()
	result.StepCount = len(steps)
	if provErr != nil {
		result.Error = provErr.Error()
	}
	logEntry(state.String(), len(steps), provErr)

	return result
}
