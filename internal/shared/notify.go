package shared

import "context"

// ChangeNotifier is told after a posting or reversal commits, so report
// caches can be invalidated out of band.
type ChangeNotifier interface {
	BooksChanged(ctx context.Context)
}

// NopNotifier ignores notifications.
type NopNotifier struct{}

func (NopNotifier) BooksChanged(context.Context) {}
