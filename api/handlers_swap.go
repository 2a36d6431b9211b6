package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nectar-dex/nectar/x/amm/types"
)

// handleSwap executes a swap against a pool.
func (s *Server) handleSwap(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	direction, ok := parseDirection(c, req.Direction)
	if !ok {
		return
	}
	amountIn, ok := amountParam(c, "amount_in", req.AmountIn, true)
	if !ok {
		return
	}
	minAmountOut, ok := amountParam(c, "min_amount_out", req.MinAmountOut, false)
	if !ok {
		return
	}

	amountOut, err := s.keeper.Swap(req.Trader, direction, amountIn, minAmountOut, poolID)
	if err != nil {
		writeKeeperError(c, err)
		return
	}

	pool, err := s.keeper.GetPool(poolID)
	if err != nil {
		writeKeeperError(c, err)
		return
	}
	c.JSON(http.StatusOK, SwapResponse{
		AmountOut: amountOut.String(),
		Pool:      newPoolResponse(pool),
	})
}

// handleQuote simulates a swap without moving value.
func (s *Server) handleQuote(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	direction, ok := parseDirection(c, c.Query("direction"))
	if !ok {
		return
	}
	amountIn, ok := amountParam(c, "amount_in", c.Query("amount_in"), true)
	if !ok {
		return
	}

	amountOut, err := s.keeper.SimulateSwap(poolID, direction, amountIn)
	if err != nil {
		writeKeeperError(c, err)
		return
	}
	c.JSON(http.StatusOK, QuoteResponse{
		Direction: direction.String(),
		AmountIn:  amountIn.String(),
		AmountOut: amountOut.String(),
	})
}

func parseDirection(c *gin.Context, raw string) (types.SwapDirection, bool) {
	switch raw {
	case "native_for_token":
		return types.NativeForToken, true
	case "token_for_native":
		return types.TokenForNative, true
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "direction must be native_for_token or token_for_native",
		})
		return 0, false
	}
}
