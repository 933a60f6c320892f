package http_api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/core-coin/vectigal/internal/ledger"
	"github.com/core-coin/vectigal/pkg/validation"
)

// SendRequest represents the JSON body for a full-share message charge.
// Caller is supplied by the invoking system; the ledger never
// authenticates it itself.
type SendRequest struct {
	Caller    string `json:"caller" binding:"required"`
	Payer     string `json:"payer" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
}

// DelegationRequest represents the JSON body for a flat-mode delegation charge.
type DelegationRequest struct {
	Caller string `json:"caller" binding:"required"`
	Payer  string `json:"payer" binding:"required"`
}

// ClaimRequest represents the JSON body for a recipient claim.
type ClaimRequest struct {
	Caller string `json:"caller" binding:"required"`
}

// DistributeRequest represents the JSON body for a pause-time sweep of
// one recipient's balance.
type DistributeRequest struct {
	Caller    string `json:"caller" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
}

// PermissionRequest represents the JSON body for granting or revoking a
// delegate. Caller is the payer owning the grant.
type PermissionRequest struct {
	Caller   string `json:"caller" binding:"required"`
	Delegate string `json:"delegate" binding:"required"`
}

// AdminRequest represents the JSON body for pause/unpause/withdraw.
type AdminRequest struct {
	Caller string `json:"caller" binding:"required"`
}

// ReclaimRequest represents the JSON body for an expired-balance reclaim.
type ReclaimRequest struct {
	Caller    string `json:"caller" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
}

// FeeRequest represents the JSON body for a fee update.
type FeeRequest struct {
	Caller string `json:"caller" binding:"required"`
	Fee    uint64 `json:"fee"`
}

// DiscountRequest represents the JSON body for a discount update.
type DiscountRequest struct {
	Caller     string `json:"caller" binding:"required"`
	Account    string `json:"account" binding:"required"`
	Percentage uint64 `json:"percentage"`
}

// RemoveDiscountRequest represents the JSON body for clearing a discount.
type RemoveDiscountRequest struct {
	Caller  string `json:"caller" binding:"required"`
	Account string `json:"account" binding:"required"`
}

// abortWithLedgerError maps the ledger error taxonomy onto HTTP statuses.
func (s *HTTPServer) abortWithLedgerError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrInvalidDiscount):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrOnlyOwner),
		errors.Is(err, ledger.ErrUnpermittedPayer):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrNoClaimableAmount),
		errors.Is(err, ledger.ErrClaimPeriodNotExpired),
		errors.Is(err, ledger.ErrContractIsPaused),
		errors.Is(err, ledger.ErrContractNotPaused):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrReentrancyGuard):
		status = http.StatusLocked
	case errors.Is(err, ledger.ErrMathOverflow):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// normalizeAddresses validates every address-typed field of a request
// and rewrites it to the normalized form the ledger keys its tables by.
func (s *HTTPServer) normalizeAddresses(c *gin.Context, addrs ...*string) bool {
	for _, addr := range addrs {
		normalized, err := validation.ValidateAndNormalizeAddress(*addr)
		if err != nil {
			s.logger.Debug("Invalid address ", "error ", err, "address ", *addr)
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid address: " + err.Error(),
			})
			return false
		}
		*addr = normalized
	}
	return true
}

// send is a handler for the full-share message charge endpoint.
func (s *HTTPServer) send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller, &req.Payer, &req.Recipient) {
		return
	}

	if err := s.ledger.Send(c.Request.Context(), req.Caller, req.Payer, req.Recipient); err != nil {
		s.logger.Error("Failed to charge message fee ", "error ", err, "payer ", req.Payer)
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// registerDelegation is a handler for the flat-mode delegation charge endpoint.
func (s *HTTPServer) registerDelegation(c *gin.Context) {
	var req DelegationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller, &req.Payer) {
		return
	}

	if err := s.ledger.RegisterDelegation(c.Request.Context(), req.Caller, req.Payer); err != nil {
		s.logger.Error("Failed to charge delegation fee ", "error ", err, "payer ", req.Payer)
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// claim is a handler for the recipient claim endpoint.
func (s *HTTPServer) claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller) {
		return
	}

	amount, err := s.ledger.Claim(c.Request.Context(), req.Caller)
	if err != nil {
		s.logger.Error("Failed to pay out claim ", "error ", err, "recipient ", req.Caller)
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "amount": amount})
}

// distribute is a handler for the permissionless pause-time sweep endpoint.
func (s *HTTPServer) distribute(c *gin.Context) {
	var req DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller, &req.Recipient) {
		return
	}

	amount, err := s.ledger.Distribute(c.Request.Context(), req.Caller, req.Recipient)
	if err != nil {
		s.logger.Error("Failed to distribute balance ", "error ", err, "recipient ", req.Recipient)
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "amount": amount})
}

func (s *HTTPServer) grantPermission(c *gin.Context) {
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller, &req.Delegate) {
		return
	}

	if err := s.ledger.GrantPayerPermission(c.Request.Context(), req.Caller, req.Delegate); err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) revokePermission(c *gin.Context) {
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller, &req.Delegate) {
		return
	}

	if err := s.ledger.RevokePayerPermission(c.Request.Context(), req.Caller, req.Delegate); err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) pause(c *gin.Context) {
	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller) {
		return
	}

	if err := s.ledger.Pause(c.Request.Context(), req.Caller); err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) unpause(c *gin.Context) {
	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller) {
		return
	}

	if err := s.ledger.Unpause(c.Request.Context(), req.Caller); err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) emergencyUnpause(c *gin.Context) {
	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller) {
		return
	}

	if err := s.ledger.EmergencyUnpause(c.Request.Context(), req.Caller); err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) reclaimExpired(c *gin.Context) {
	var req ReclaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller, &req.Recipient) {
		return
	}

	amount, err := s.ledger.ReclaimExpired(c.Request.Context(), req.Caller, req.Recipient)
	if err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "amount": amount})
}

func (s *HTTPServer) withdraw(c *gin.Context) {
	var req AdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller) {
		return
	}

	amount, err := s.ledger.WithdrawOperatorShare(c.Request.Context(), req.Caller)
	if err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "amount": amount})
}

func (s *HTTPServer) setSendFee(c *gin.Context) {
	var req FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller) {
		return
	}

	if err := s.ledger.SetSendFee(c.Request.Context(), req.Caller, req.Fee); err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) setDelegationFee(c *gin.Context) {
	var req FeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller) {
		return
	}

	if err := s.ledger.SetDelegationFee(c.Request.Context(), req.Caller, req.Fee); err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) setDiscount(c *gin.Context) {
	var req DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller, &req.Account) {
		return
	}

	if err := s.ledger.SetDiscount(c.Request.Context(), req.Caller, req.Account, req.Percentage); err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *HTTPServer) removeDiscount(c *gin.Context) {
	var req RemoveDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body: " + err.Error()})
		return
	}
	if !s.normalizeAddresses(c, &req.Caller, &req.Account) {
		return
	}

	if err := s.ledger.RemoveDiscount(c.Request.Context(), req.Caller, req.Account); err != nil {
		s.abortWithLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// fees is a handler returning both base fees.
func (s *HTTPServer) fees(c *gin.Context) {
	sendFee, err := s.ledger.SendFee()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get fees"})
		return
	}
	delegationFee, err := s.ledger.DelegationFee()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get fees"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"send_fee": sendFee, "delegation_fee": delegationFee})
}

// claimInfo is a handler returning a recipient's claimable balance,
// its expiry timestamp and whether the window has passed.
func (s *HTTPServer) claimInfo(c *gin.Context) {
	address := c.Param("address")
	if !s.normalizeAddresses(c, &address) {
		return
	}

	info, err := s.ledger.ClaimInfo(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get claim info"})
		return
	}

	c.JSON(http.StatusOK, info)
}

func (s *HTTPServer) accrual(c *gin.Context) {
	accrual, err := s.ledger.OperatorAccrual()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get operator accrual"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"operator_accrual": accrual})
}

func (s *HTTPServer) discount(c *gin.Context) {
	address := c.Param("address")
	if !s.normalizeAddresses(c, &address) {
		return
	}

	discount, err := s.ledger.Discount(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get discount"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": address, "percentage": discount})
}

// payoutRecords is a handler returning the audit trail of balances that
// left the ledger for one account.
func (s *HTTPServer) payoutRecords(c *gin.Context) {
	address := c.Param("address")
	if !s.normalizeAddresses(c, &address) {
		return
	}

	records, err := s.ledger.PayoutRecords(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get payout records"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": address, "records": records})
}

func (s *HTTPServer) paused(c *gin.Context) {
	paused, err := s.ledger.Paused()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get pause flag"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"paused": paused})
}

// permission is a handler returning the grant flag for a
// (delegate, payer) pair given as query parameters.
func (s *HTTPServer) permission(c *gin.Context) {
	delegate := c.Query("delegate")
	payer := c.Query("payer")
	if delegate == "" || payer == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delegate and payer are required"})
		return
	}
	if !s.normalizeAddresses(c, &delegate, &payer) {
		return
	}

	allowed, err := s.ledger.HasPayerPermission(delegate, payer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get permission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"delegate": delegate, "payer": payer, "allowed": allowed})
}

// health reports the pause flag (which exercises the database) and the
// custody balance when a balance source is wired.
func (s *HTTPServer) health(c *gin.Context) {
	paused, err := s.ledger.Paused()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"healthy": false, "error": "database unreachable"})
		return
	}

	resp := gin.H{"healthy": true, "paused": paused}
	if s.balance != nil {
		balance, err := s.balance.CustodyBalance()
		if err != nil {
			s.logger.Warn("Failed to get custody balance ", "error ", err)
		} else {
			resp["custody_balance"] = balance.String()
		}
	}

	c.JSON(http.StatusOK, resp)
}
