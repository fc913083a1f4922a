package domain

import "context"

// RepairService runs one best-effort repair of the configured quiz database.
type RepairService interface {
	// Run applies the named strategy (the configured default when empty).
	// A document that still fails to parse is reported, not returned as error;
	// the error is reserved for I/O failures and unknown strategies.
	Run(ctx context.Context, strategy string) (*RepairReport, error)
}

// UploadService publishes a repaired quiz database to the quiz store.
type UploadService interface {
	Upload(ctx context.Context, path string) (*UploadReport, error)
}
