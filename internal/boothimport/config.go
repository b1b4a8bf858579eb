package boothimport

const (
	DefaultBatchSize = 500

	// DefaultNamespace seeds the deterministic booth ids. Changing it re-keys every booth.
	DefaultNamespace = "6f0d1c5e-3b7a-4f43-9a55-0c2b8f1d7e90"
)

type Config struct {
	BoothsPath   string
	MappingsPath string
	AcsPath      string
	Namespace    string
	BatchSize    int

	// DryRun parses and validates only.
	DryRun bool
	// Replace truncates each table that has an input file. It requires Confirm.
	Replace bool
	Confirm bool
}

// Result counts the rows read from each file.
type Result struct {
	Booths   int
	Mappings int
	Acs      int
}
