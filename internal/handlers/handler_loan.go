package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/finmentor/loan_management_app/internal/apperrors"
	"github.com/finmentor/loan_management_app/internal/core/domain"
	portssvc "github.com/finmentor/loan_management_app/internal/core/ports/services"
	"github.com/finmentor/loan_management_app/internal/dto"
	"github.com/finmentor/loan_management_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// loanHandler handles HTTP requests related to loans.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

// newLoanHandler creates a new loanHandler.
func newLoanHandler(loanService portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{
		loanService: loanService,
	}
}

// registerLoanRoutes registers all loan-related routes.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.POST("", h.createLoan)
		loans.GET("", h.listLoans)
		loans.GET("/:loanID", h.getLoan)
		loans.PUT("/:loanID/terms", h.updateLoanTerms)
		loans.GET("/:loanID/schedule", h.getSchedule)
		loans.POST("/:loanID/payments", h.recordPayment)
		loans.GET("/:loanID/payments", h.listPayments)
		loans.POST("/:loanID/refresh-status", h.refreshStatus)
		loans.POST("/:loanID/close", h.closeLoan)
	}
}

// bindingErrorMessage flattens gin binding failures into a readable message.
func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, "field '"+fe.Field()+"' failed on '"+fe.Tag()+"'")
		}
		return "Invalid request format: " + strings.Join(parts, ", ")
	}
	return "Invalid request format: " + err.Error()
}

// respondLoanError translates service errors into HTTP responses.
func respondLoanError(c *gin.Context, logger *slog.Logger, action string, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Loan not found", slog.String("action", action))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Loan not found"})
	case errors.Is(err, domain.ErrInstallmentNotFound):
		logger.Warn("Installment not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrDuplicatePayment):
		logger.Warn("Installment already paid", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate payment", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflicting loan state", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("action", action))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	default:
		logger.Error("Unexpected service error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to " + action})
	}
}

// createLoan godoc
// @Summary Create a new loan
// @Description Creates a loan from the supplied terms, deriving the EMI amount and full amortization schedule
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.CreateLoanRequest true "Loan terms"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse "Invalid loan terms"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for create loan request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondLoanError(c, logger, "create loan", err)
		return
	}

	logger.Info("Loan created successfully", slog.String("loan_id", loan.LoanID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List loans
// @Description Lists the authenticated user's loans, newest first, with token-based pagination
// @Tags loans
// @Produce  json
// @Param   limit query int false "Page size (default 20, max 100)"
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListLoansResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid list parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	resp, err := h.loanService.ListLoans(c.Request.Context(), userID, params)
	if err != nil {
		respondLoanError(c, logger, "list loans", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getLoan godoc
// @Summary Get a loan
// @Description Retrieves a loan with its current status, schedule and payment log
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))

	loan, err := h.loanService.GetLoanByID(c.Request.Context(), loanID, userID)
	if err != nil {
		respondLoanError(c, logger, "get loan", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// updateLoanTerms godoc
// @Summary Update loan terms
// @Description Modifies principal, rate, tenure or start date and regenerates all derived fields. Rejected once any payment exists.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   terms body dto.UpdateLoanTermsRequest true "New loan terms"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse "Invalid loan terms"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 409 {object} ErrorResponse "Payments already recorded"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/terms [put]
func (h *loanHandler) updateLoanTerms(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	var req dto.UpdateLoanTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for update loan terms request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))

	loan, err := h.loanService.UpdateLoanTerms(c.Request.Context(), loanID, req, userID)
	if err != nil {
		respondLoanError(c, logger, "update loan terms", err)
		return
	}

	logger.Info("Loan terms updated successfully")
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// getSchedule godoc
// @Summary Get the EMI schedule
// @Description Retrieves the loan's full amortization schedule ordered by installment number
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/schedule [get]
func (h *loanHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	schedule, err := h.loanService.GetSchedule(c.Request.Context(), loanID, userID)
	if err != nil {
		respondLoanError(c, logger.With(slog.String("loan_id", loanID)), "get schedule", err)
		return
	}

	c.JSON(http.StatusOK, dto.ScheduleResponse{
		LoanID:      loanID,
		EMISchedule: dto.ToInstallmentResponses(schedule),
	})
}

// recordPayment godoc
// @Summary Record a payment
// @Description Applies a payment against one installment and updates the loan's running totals and status
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse "Invalid payment"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan or installment not found"
// @Failure 409 {object} ErrorResponse "Installment already paid"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/payments [post]
func (h *loanHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for record payment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID), slog.Int("emi_number", req.EMINumber))

	loan, err := h.loanService.RecordPayment(c.Request.Context(), loanID, req, userID)
	if err != nil {
		respondLoanError(c, logger, "record payment", err)
		return
	}

	logger.Info("Payment recorded successfully", slog.String("status", string(loan.Status)))
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// listPayments godoc
// @Summary List payments
// @Description Retrieves the loan's payment log in chronological order
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.ListPaymentsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/payments [get]
func (h *loanHandler) listPayments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	payments, err := h.loanService.ListPayments(c.Request.Context(), loanID, userID)
	if err != nil {
		respondLoanError(c, logger.With(slog.String("loan_id", loanID)), "list payments", err)
		return
	}

	c.JSON(http.StatusOK, dto.ListPaymentsResponse{
		LoanID:   loanID,
		Payments: dto.ToPaymentResponses(payments),
	})
}

// refreshStatus godoc
// @Summary Refresh loan status
// @Description Re-derives the loan status as of the given date (now if omitted), marking past-due installments overdue
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Param   request body dto.RefreshStatusRequest false "Optional evaluation date"
// @Success 200 {object} dto.RefreshStatusResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/refresh-status [post]
func (h *loanHandler) refreshStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	var req dto.RefreshStatusRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for refresh status request", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingErrorMessage(err)})
			return
		}
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))

	status, err := h.loanService.RefreshStatus(c.Request.Context(), loanID, req.AsOfDate, userID)
	if err != nil {
		respondLoanError(c, logger, "refresh loan status", err)
		return
	}

	logger.Info("Loan status refreshed", slog.String("status", string(status)))
	c.JSON(http.StatusOK, dto.RefreshStatusResponse{LoanID: loanID, Status: string(status)})
}

// closeLoan godoc
// @Summary Close a loan early
// @Description Marks the loan as prepaid. This is terminal and cannot be undone.
// @Tags loans
// @Produce  json
// @Param   loanID path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Loan not found"
// @Failure 409 {object} ErrorResponse "Loan already closed"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{loanID}/close [post]
func (h *loanHandler) closeLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	loanID := c.Param("loanID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("loan_id", loanID))

	loan, err := h.loanService.CloseLoanEarly(c.Request.Context(), loanID, userID)
	if err != nil {
		respondLoanError(c, logger, "close loan", err)
		return
	}

	logger.Info("Loan closed early", slog.String("status", string(loan.Status)))
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}
