package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service container.
type RepositoryProvider struct {
	LoanRepo LoanRepositoryFacade
	UserRepo UserRepository
}
