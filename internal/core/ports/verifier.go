package ports

// Verifier checks for the existence of declared outputs on disk.
//
//go:generate go run go.uber.org/mock/mockgen -source=verifier.go -destination=mocks/mock_verifier.go -package=mocks
type Verifier interface {
	// OutputsExist reports whether every listed output exists.
	OutputsExist(outputs []string) (bool, error)
}
