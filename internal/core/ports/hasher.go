package ports

// Hasher computes path signatures for staleness checks.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Signature returns the current signature of the file at path. Two calls
	// return the same signature iff the file content is unchanged.
	Signature(path string) (string, error)
}
