package api

import (
	"net/http"
	"strconv"

	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/nectar-dex/nectar/x/amm/types"
)

// handleGetPools returns all pools in creation order.
func (s *Server) handleGetPools(c *gin.Context) {
	pools := s.keeper.GetAllPools()

	out := make([]PoolResponse, 0, len(pools))
	for _, pool := range pools {
		out = append(out, newPoolResponse(pool))
	}
	c.JSON(http.StatusOK, gin.H{
		"pools": out,
		"count": len(out),
	})
}

// handleGetPool returns a specific pool by ID.
func (s *Server) handleGetPool(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	pool, err := s.keeper.GetPool(poolID)
	if err != nil {
		writeKeeperError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPoolResponse(pool))
}

// handleCreatePool registers a pool for a new asset.
func (s *Server) handleCreatePool(c *gin.Context) {
	var req CreatePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	pool, err := s.keeper.CreatePool(req.Creator, req.Asset)
	if err != nil {
		writeKeeperError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPoolResponse(pool))
}

// handleGetShares returns one owner's share balance in a pool.
func (s *Server) handleGetShares(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}
	owner := c.Param("owner")

	if _, err := s.keeper.GetPool(poolID); err != nil {
		writeKeeperError(c, err)
		return
	}

	c.JSON(http.StatusOK, SharesResponse{
		PoolID: poolID,
		Owner:  owner,
		Shares: s.keeper.SharesOf(poolID, owner).String(),
	})
}

// handleSync forces a reserve resync from the escrow's ledger balances.
func (s *Server) handleSync(c *gin.Context) {
	poolID, ok := poolIDParam(c)
	if !ok {
		return
	}

	if err := s.keeper.SyncReserves(poolID); err != nil {
		writeKeeperError(c, err)
		return
	}
	pool, err := s.keeper.GetPool(poolID)
	if err != nil {
		writeKeeperError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPoolResponse(pool))
}

// handleGetEvents returns the most recent engine events.
func (s *Server) handleGetEvents(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		limit = cast.ToInt(raw)
		if limit <= 0 {
			limit = 100
		}
	}

	events := s.keeper.Events().Recent(limit)
	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"count":  len(events),
	})
}

func poolIDParam(c *gin.Context) (uint64, bool) {
	poolID, err := strconv.ParseUint(c.Param("pool_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid pool id",
			Details: err.Error(),
		})
		return 0, false
	}
	return poolID, true
}

func amountParam(c *gin.Context, field, raw string, required bool) (math.Int, bool) {
	if raw == "" {
		if required {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: field + " is required",
			})
			return math.Int{}, false
		}
		return math.ZeroInt(), true
	}
	amount, ok := math.NewIntFromString(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid " + field + ": not a base-10 integer",
		})
		return math.Int{}, false
	}
	return amount, true
}

// writeKeeperError maps the engine's error taxonomy onto HTTP statuses. The
// registered sentinel survives wrapping, so IsOf sees through Wrapf chains.
func writeKeeperError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case sdkerrors.IsOf(err, types.ErrPoolNotFound):
		status = http.StatusNotFound
	case sdkerrors.IsOf(err, types.ErrPoolExists):
		status = http.StatusConflict
	case sdkerrors.IsOf(err, types.ErrReentrancy):
		status = http.StatusConflict
	case sdkerrors.IsOf(err, types.ErrSlippage),
		sdkerrors.IsOf(err, types.ErrInsufficientOutput),
		sdkerrors.IsOf(err, types.ErrInsufficientLiquidity),
		sdkerrors.IsOf(err, types.ErrInsufficientShares):
		status = http.StatusUnprocessableEntity
	case sdkerrors.IsOf(err, types.ErrTransferFailed):
		status = http.StatusBadGateway
	case sdkerrors.IsOf(err, types.ErrInvariantViolation),
		sdkerrors.IsOf(err, types.ErrInvalidPoolState):
		status = http.StatusInternalServerError
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
