package services

import (
	portsrepo "github.com/finmentor/loan_management_app/internal/core/ports/repositories"
	portssvc "github.com/finmentor/loan_management_app/internal/core/ports/services"
	"github.com/finmentor/loan_management_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Loan = NewLoanService(repos.LoanRepo)

	return container
}

// Compile-time interface implementation checks.
var (
	_ portssvc.LoanSvcFacade = (*loanService)(nil)
	_ portssvc.UserSvcFacade = (*userService)(nil)
)
