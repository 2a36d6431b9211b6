package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		pools := v1.Group("/pools")
		{
			pools.GET("", s.handleGetPools)
			pools.POST("", s.handleCreatePool)
			pools.GET("/:pool_id", s.handleGetPool)
			pools.GET("/:pool_id/quote", s.handleQuote)
			pools.GET("/:pool_id/shares/:owner", s.handleGetShares)
			pools.POST("/:pool_id/deposits", s.handleDeposit)
			pools.POST("/:pool_id/withdrawals", s.handleWithdraw)
			pools.POST("/:pool_id/swaps", s.handleSwap)
			pools.POST("/:pool_id/sync", s.handleSync)
		}

		v1.GET("/events", s.handleGetEvents)
	}
}
