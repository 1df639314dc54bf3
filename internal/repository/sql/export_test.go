package sql

import "database/sql"

// GetTxFromProductRepo is a test helper to extract transaction from ProductRepository.
func GetTxFromProductRepo(repo *ProductRepository) *sql.Tx {
	return repo.txn
}

// ConstraintError exposes constraintError to tests.
func ConstraintError(err error) error {
	return constraintError(err)
}
