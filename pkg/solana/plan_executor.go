package solana

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	log "github.com/sirupsen/logrus"

	"ammcontrol/internal/amm"
)

// SendResult 一次计划提交的结果
type SendResult struct {
	Signature string
	Success   bool
	Error     error
}

// BuildStepInstruction 将引擎产出的计划步骤编译为链上指令。
// 派生签名者对应的签名在程序内完成，这里只负责账户编排。
func BuildStepInstruction(step amm.Step) (solana.Instruction, error) {
	switch step.Kind {
	case amm.StepFundRent:
		return system.NewTransferInstruction(step.Amount, step.From, step.Account).Build(), nil
	case amm.StepAllocate:
		return system.NewAllocateInstruction(step.Space, step.Account).Build(), nil
	case amm.StepAssign:
		return system.NewAssignInstruction(step.Program, step.Account).Build(), nil
	case amm.StepInitialize:
		return token.NewInitializeAccount3Instruction(step.Authority, step.Account, step.Mint).Build(), nil
	case amm.StepTransfer:
		if step.Mint.IsZero() {
			// 原生转账
			return system.NewTransferInstruction(step.Amount, step.From, step.Account).Build(), nil
		}
		return token.NewTransferInstruction(step.Amount, step.From, step.Account, step.Authority, nil).Build(), nil
	case amm.StepMintShares:
		return token.NewMintToInstruction(step.Amount, step.Mint, step.Account, step.Authority, nil).Build(), nil
	case amm.StepBurnShares:
		return token.NewBurnInstruction(step.Amount, step.Account, step.Mint, step.Authority, nil).Build(), nil
	default:
		return nil, fmt.Errorf("unknown step kind: %d", step.Kind)
	}
}

// SendPlan 将一组计划步骤打成单笔交易提交，全部成功或全部失败。
// limiter 控制对 RPC 的请求速率，失败自动重试最多 3 次。
func SendPlan(
	client *rpc.Client,
	steps []amm.Step,
	payer solana.PublicKey,
	signerFunc func(key solana.PublicKey) *solana.PrivateKey,
	limiter *rate.Limiter,
) SendResult {
	ctx := context.Background()

	if len(steps) == 0 {
		return SendResult{Success: true}
	}

	instructions := make([]solana.Instruction, 0, len(steps))
	for _, step := range steps {
		ix, err := BuildStepInstruction(step)
		if err != nil {
			return SendResult{Success: false, Error: err}
		}
		instructions = append(instructions, ix)
	}

	maxRetries := 3
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return SendResult{Success: false, Error: fmt.Errorf("rate limiter wait failed: %w", err)}
			}
		}

		sig, err := sendOnce(ctx, client, instructions, payer, signerFunc)
		if err == nil {
			return SendResult{Signature: sig.String(), Success: true}
		}
		lastErr = err

		if attempt < maxRetries {
			// 短暂退避后重试
			time.Sleep(time.Duration(attempt+1) * 100 * time.Millisecond)
			log.Warnf("Plan submit failed, attempt %d/%d, retrying... Error: %v", attempt+1, maxRetries, err)
		}
	}

	log.Errorf("Plan submit failed after %d attempts, giving up. Error: %v", maxRetries+1, lastErr)
	return SendResult{Success: false, Error: lastErr}
}

func sendOnce(
	ctx context.Context,
	client *rpc.Client,
	instructions []solana.Instruction,
	payer solana.PublicKey,
	signerFunc func(key solana.PublicKey) *solana.PrivateKey,
) (solana.Signature, error) {
	bh, err := client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, err
	}

	tx, err := solana.NewTransaction(instructions, bh.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, err
	}
	if _, err := tx.Sign(signerFunc); err != nil {
		return solana.Signature{}, err
	}

	return client.SendTransaction(ctx, tx)
}

// CheckTransactionStatus 检查交易确认状态
func CheckTransactionStatus(client *rpc.Client, signature string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return "", fmt.Errorf("invalid signature format: %v", err)
	}

	res, err := client.GetSignatureStatuses(ctx, false, sig)
	if err != nil {
		return "", fmt.Errorf("failed to get signature status: %v", err)
	}

	if len(res.Value) == 0 || res.Value[0] == nil {
		return "pending", nil
	}

	status := res.Value[0]
	if status.Err != nil {
		return "error", fmt.Errorf("transaction failed: %v", status.Err)
	}

	switch status.ConfirmationStatus {
	case rpc.ConfirmationStatusFinalized:
		return "finalized", nil
	case rpc.ConfirmationStatusConfirmed:
		return "confirmed", nil
	default:
		return "pending", nil
	}
}
