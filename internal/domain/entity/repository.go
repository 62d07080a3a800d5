package entity

import "context"

// Writer persists normalized records inside one pass transaction.
type Writer interface {
	Insert(ctx context.Context, rec Record) error
	InsertIgnoreConflict(ctx context.Context, rec Record) (bool, error)
}

// Gateway runs a pass against durable storage. fn's writes commit together or not at all.
type Gateway interface {
	WithinPass(ctx context.Context, pass string, fn func(ctx context.Context, w Writer) error) error
}

// SchemaProvisioner drops and recreates the target schema.
type SchemaProvisioner interface {
	Reset(ctx context.Context) error
}
