package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleDeposit adds liquidity to a pool.
func (s *Server) handleDeposit(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	nativeIn, ok := amountParam(c, "native_in", req.NativeIn, true)
	if !ok {
		return
	}
	tokenIn, ok := amountParam(c, "token_in", req.TokenIn, true)
	if !ok {
		return
	}

	shares, err := s.keeper.Deposit(req.Provider, nativeIn, tokenIn, poolID)
	if err != nil {
		writeKeeperError(c, err)
		return
	}

	pool, err := s.keeper.GetPool(poolID)
	if err != nil {
		writeKeeperError(c, err)
		return
	}
	c.JSON(http.StatusOK, DepositResponse{
		Shares: shares.String(),
		Pool:   newPoolResponse(pool),
	})
}

// handleWithdraw burns shares for a proportional slice of both reserves.
func (s *Server) handleWithdraw(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	shares, ok := amountParam(c, "shares", req.Shares, true)
	if !ok {
		return
	}
	minNative, ok := amountParam(c, "min_native", req.MinNative, false)
	if !ok {
		return
	}
	minToken, ok := amountParam(c, "min_token", req.MinToken, false)
	if !ok {
		return
	}

	nativeOut, tokenOut, err := s.keeper.Withdraw(req.Provider, shares, minNative, minToken, poolID)
	if err != nil {
		writeKeeperError(c, err)
		return
	}

	pool, err := s.keeper.GetPool(poolID)
	if err != nil {
		writeKeeperError(c, err)
		return
	}
	c.JSON(http.StatusOK, WithdrawResponse{
		NativeOut: nativeOut.String(),
		TokenOut:  tokenOut.String(),
		Pool:      newPoolResponse(pool),
	})
}
