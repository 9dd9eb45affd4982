package services

// ServiceContainer bundles every service facade for injection into the
// handler layer.
type ServiceContainer struct {
	Loan LoanSvcFacade
	User UserSvcFacade
}
