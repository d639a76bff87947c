package solana

import (
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ammcontrol/internal/amm"
)

func TestBuildStepInstruction(t *testing.T) {
	account := solanago.NewWallet().PublicKey()
	payer := solanago.NewWallet().PublicKey()
	mint := solanago.NewWallet().PublicKey()
	authority := solanago.NewWallet().PublicKey()

	t.Run("Provisioning Steps Target The Right Programs", func(t *testing.T) {
		steps := []amm.Step{
			{Kind: amm.StepFundRent, Account: account, From: payer, Amount: 2_039_280},
			{Kind: amm.StepAllocate, Account: account, Space: 165},
			{Kind: amm.StepAssign, Account: account, Program: TOKEN_PROGRAM_ID},
			{Kind: amm.StepInitialize, Account: account, Mint: mint, Authority: authority, Program: TOKEN_PROGRAM_ID},
		}

		wantPrograms := []solanago.PublicKey{
			system.ProgramID,
			system.ProgramID,
			system.ProgramID,
			token.ProgramID,
		}
		for i, step := range steps {
			ix, err := BuildStepInstruction(step)
			require.NoError(t, err)
			assert.Equal(t, wantPrograms[i], ix.ProgramID(), "step %d", i)
		}
	})

	t.Run("Native Transfer Uses System Program", func(t *testing.T) {
		ix, err := BuildStepInstruction(amm.Step{
			Kind:    amm.StepTransfer,
			Account: account,
			From:    payer,
			Amount:  1000,
		})
		require.NoError(t, err)
		assert.Equal(t, system.ProgramID, ix.ProgramID())
	})

	t.Run("Token Transfer Uses Token Program", func(t *testing.T) {
		ix, err := BuildStepInstruction(amm.Step{
			Kind:      amm.StepTransfer,
			Account:   account,
			From:      payer,
			Mint:      mint,
			Authority: authority,
			Amount:    1000,
		})
		require.NoError(t, err)
		assert.Equal(t, token.ProgramID, ix.ProgramID())
	})

	t.Run("Share Mint And Burn", func(t *testing.T) {
		mintIx, err := BuildStepInstruction(amm.Step{
			Kind: amm.StepMintShares, Account: account, Mint: mint, Authority: authority, Amount: 75,
		})
		require.NoError(t, err)
		assert.Equal(t, token.ProgramID, mintIx.ProgramID())

		burnIx, err := BuildStepInstruction(amm.Step{
			Kind: amm.StepBurnShares, Account: account, Mint: mint, Authority: authority, Amount: 75,
		})
		require.NoError(t, err)
		assert.Equal(t, token.ProgramID, burnIx.ProgramID())
	})

	t.Run("Unknown Step Kind", func(t *testing.T) {
		_, err := BuildStepInstruction(amm.Step{Kind: amm.StepKind(99)})
		assert.Error(t, err)
	})
}
