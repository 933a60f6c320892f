package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	v1 := s.router.Group("/api/v1")

	// fee-charging operations
	v1.POST("/messages", s.send)
	v1.POST("/delegations", s.registerDelegation)

	// claim lifecycle
	v1.POST("/claims", s.claim)
	v1.POST("/distributions", s.distribute)

	// payer permissions
	v1.POST("/permissions/grant", s.grantPermission)
	v1.POST("/permissions/revoke", s.revokePermission)

	// operator-only surface
	admin := v1.Group("/admin")
	admin.POST("/pause", s.pause)
	admin.POST("/unpause", s.unpause)
	admin.POST("/emergency-unpause", s.emergencyUnpause)
	admin.POST("/reclaims", s.reclaimExpired)
	admin.POST("/withdrawals", s.withdraw)
	admin.PUT("/send-fee", s.setSendFee)
	admin.PUT("/delegation-fee", s.setDelegationFee)
	admin.PUT("/discounts", s.setDiscount)
	admin.POST("/discounts/remove", s.removeDiscount)

	// read surface
	v1.GET("/fees", s.fees)
	v1.GET("/claims/:address", s.claimInfo)
	v1.GET("/accrual", s.accrual)
	v1.GET("/discounts/:address", s.discount)
	v1.GET("/paused", s.paused)
	v1.GET("/payouts/:address", s.payoutRecords)
	v1.GET("/permissions", s.permission)
	v1.GET("/health", s.health)
}
