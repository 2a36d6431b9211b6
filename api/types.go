package api

import "github.com/nectar-dex/nectar/x/amm/types"

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// PoolResponse mirrors a pool record on the wire. Amounts travel as decimal
// strings: the reserves routinely exceed what JSON numbers can carry.
type PoolResponse struct {
	ID            uint64 `json:"id"`
	Asset         string `json:"asset"`
	Account       string `json:"account"`
	ReserveNative string `json:"reserve_native"`
	ReserveToken  string `json:"reserve_token"`
	TotalShares   string `json:"total_shares"`
}

func newPoolResponse(pool *types.Pool) PoolResponse {
	return PoolResponse{
		ID:            pool.Id,
		Asset:         pool.Asset,
		Account:       pool.Account,
		ReserveNative: pool.ReserveNative.String(),
		ReserveToken:  pool.ReserveToken.String(),
		TotalShares:   pool.TotalShares.String(),
	}
}

// CreatePoolRequest registers a pool for a new asset.
type CreatePoolRequest struct {
	Creator string `json:"creator" binding:"required"`
	Asset   string `json:"asset" binding:"required"`
}

// DepositRequest adds liquidity to a pool.
type DepositRequest struct {
	Provider string `json:"provider" binding:"required"`
	NativeIn string `json:"native_in" binding:"required"`
	TokenIn  string `json:"token_in" binding:"required"`
}

// DepositResponse reports the minted shares and the post-deposit pool.
type DepositResponse struct {
	Shares string       `json:"shares"`
	Pool   PoolResponse `json:"pool"`
}

// WithdrawRequest burns shares for both reserve sides.
type WithdrawRequest struct {
	Provider  string `json:"provider" binding:"required"`
	Shares    string `json:"shares" binding:"required"`
	MinNative string `json:"min_native,omitempty"`
	MinToken  string `json:"min_token,omitempty"`
}

// WithdrawResponse reports both payout legs and the post-withdraw pool.
type WithdrawResponse struct {
	NativeOut string       `json:"native_out"`
	TokenOut  string       `json:"token_out"`
	Pool      PoolResponse `json:"pool"`
}

// SwapRequest trades one side of the pair for the other.
type SwapRequest struct {
	Trader       string `json:"trader" binding:"required"`
	Direction    string `json:"direction" binding:"required,oneof=native_for_token token_for_native"`
	AmountIn     string `json:"amount_in" binding:"required"`
	MinAmountOut string `json:"min_amount_out,omitempty"`
}

// SwapResponse reports the executed output and the post-swap pool.
type SwapResponse struct {
	AmountOut string       `json:"amount_out"`
	Pool      PoolResponse `json:"pool"`
}

// QuoteResponse is a read-only swap simulation.
type QuoteResponse struct {
	Direction string `json:"direction"`
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
}

// SharesResponse reports one owner's share balance in one pool.
type SharesResponse struct {
	PoolID uint64 `json:"pool_id"`
	Owner  string `json:"owner"`
	Shares string `json:"shares"`
}
