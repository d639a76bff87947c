package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"ammcontrol/internal/amm"
	acsolana "ammcontrol/pkg/solana"
)

// Sweeps idle native balance out of a drained pool back to the operator.
// 仅在池份额已全部销毁时可用，储备底线以内的部分不会动。
func main() {
	poolAddr := flag.String("pool", "", "Pool state address")
	recipientAddr := flag.String("recipient", "", "Recipient for the recovered balance")
	operatorAddr := flag.String("operator", "", "Operator keystore address used to pay and sign")
	rpcURL := flag.String("rpc-url", rpc.MainNetBeta_RPC, "Solana RPC URL")
	dryRun := flag.Bool("dry-run", true, "Print the plan without sending")
	flag.Parse()

	if *poolAddr == "" || *recipientAddr == "" {
		log.Error("Pool and recipient addresses are required")
		fmt.Println("Usage example: go run scripts/recover_idle_native/main.go -pool <address> -recipient <address> -operator <address>")
		os.Exit(1)
	}

	client := rpc.New(*rpcURL)
	ctx := context.Background()

	pool := solanago.MustPublicKeyFromBase58(*poolAddr)
	recipient := solanago.MustPublicKeyFromBase58(*recipientAddr)

	custodyPDA, err := acsolana.GetPoolPdaPDA(pool)
	if err != nil {
		log.Fatalf("Failed to derive custody address: %v", err)
	}
	vaultPDA, err := acsolana.GetNativeVaultPDA(pool)
	if err != nil {
		log.Fatalf("Failed to derive token vault: %v", err)
	}

	snap, err := acsolana.LoadPoolSnapshot(ctx, client, pool, custodyPDA.Address, vaultPDA.Address)
	if err != nil {
		log.Fatalf("Failed to load pool snapshot: %v", err)
	}
	state := snap.State
	custody := snap.Vault0

	floor, err := acsolana.GetRentFloor(ctx, client, custody.DataLen)
	if err != nil {
		log.Fatalf("Failed to fetch rent floor: %v", err)
	}

	signer := &amm.DerivedSigner{
		Seed: acsolana.SEED_POOL_PDA,
		Pool: pool,
		Bump: custodyPDA.Bump,
	}

	steps, _, err := amm.RecoverIdleNative(state, custody, floor, recipient, signer)
	if err != nil {
		log.Fatalf("Recovery rejected: %v", err)
	}

	amount := steps[0].Amount
	log.Infof("> Recoverable balance: %d lamports (custody %d, floor %d)", amount, custody.Lamports, floor)

	if *dryRun {
		log.Info("> Dry run, nothing sent")
		return
	}

	if *operatorAddr == "" {
		log.Fatal("Operator address is required to send")
	}
	password := os.Getenv("KEYSTORE_PASSWORD")
	if password == "" {
		log.Fatal("KEYSTORE_PASSWORD is not set")
	}

	km := acsolana.NewKeyManager()
	payer, signerFunc, err := km.PlanSigner(*operatorAddr, password)
	if err != nil {
		log.Fatalf("Failed to load operator key: %v", err)
	}

	limiter := rate.NewLimiter(rate.Limit(2), 1)
	result := acsolana.SendPlan(client, steps, payer, signerFunc, limiter)
	if !result.Success {
		log.Fatalf("Plan submission failed: %v", result.Error)
	}
	log.Infof("> Sent: %s", result.Signature)
}
