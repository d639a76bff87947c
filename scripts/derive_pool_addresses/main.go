package main

import (
	"flag"
	"fmt"
	"os"

	solanago "github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"

	acsolana "ammcontrol/pkg/solana"
)

func main() {
	// Define command line flags
	mint0Addr := flag.String("mint0", "", "First token mint address")
	mint1Addr := flag.String("mint1", "", "Second token mint address")
	native := flag.Bool("native", false, "Derive addresses for a native-asset pool")
	flag.Parse()

	// Validate required flags
	if *mint0Addr == "" || *mint1Addr == "" {
		log.Error("Both mint addresses are required")
		fmt.Println("Usage example: go run scripts/derive_pool_addresses/main.go -mint0 So11111111111111111111111111111111111111112 -mint1 EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
		os.Exit(1)
	}

	mint0 := solanago.MustPublicKeyFromBase58(*mint0Addr)
	mint1 := solanago.MustPublicKeyFromBase58(*mint1Addr)

	poolState, err := acsolana.GetPoolStatePDA(mint0, mint1)
	if err != nil {
		log.Fatalf("Failed to derive pool state address: %v", err)
	}
	authority, err := acsolana.GetPoolAuthorityPDA(poolState.Address)
	if err != nil {
		log.Fatalf("Failed to derive pool authority: %v", err)
	}

	fmt.Printf("\nPool addresses for %s / %s:\n", *mint0Addr, *mint1Addr)
	fmt.Printf("Pool State: %s (bump %d)\n", poolState.Address, poolState.Bump)
	fmt.Printf("Authority:  %s (bump %d)\n", authority.Address, authority.Bump)

	if *native {
		custody, err := acsolana.GetPoolPdaPDA(poolState.Address)
		if err != nil {
			log.Fatalf("Failed to derive custody address: %v", err)
		}
		vault, err := acsolana.GetNativeVaultPDA(poolState.Address)
		if err != nil {
			log.Fatalf("Failed to derive token vault: %v", err)
		}
		lpMint, err := acsolana.GetLpMintPDA(poolState.Address)
		if err != nil {
			log.Fatalf("Failed to derive share mint: %v", err)
		}
		fmt.Printf("Custody:    %s (bump %d)\n", custody.Address, custody.Bump)
		fmt.Printf("Vault:      %s (bump %d)\n", vault.Address, vault.Bump)
		fmt.Printf("Share Mint: %s (bump %d)\n", lpMint.Address, lpMint.Bump)
		return
	}

	vault0, err := acsolana.GetVaultPDA(poolState.Address, 0)
	if err != nil {
		log.Fatalf("Failed to derive vault0: %v", err)
	}
	vault1, err := acsolana.GetVaultPDA(poolState.Address, 1)
	if err != nil {
		log.Fatalf("Failed to derive vault1: %v", err)
	}
	shareMint, err := acsolana.GetPoolMintPDA(poolState.Address)
	if err != nil {
		log.Fatalf("Failed to derive share mint: %v", err)
	}
	fmt.Printf("Vault0:     %s (bump %d)\n", vault0.Address, vault0.Bump)
	fmt.Printf("Vault1:     %s (bump %d)\n", vault1.Address, vault1.Bump)
	fmt.Printf("Share Mint: %s (bump %d)\n", shareMint.Address, shareMint.Bump)
}
