package ports

// Watcher monitors a subtitle directory for new or rewritten files.
// The adapter (fsnotify) must filter to the extensions it was configured
// with before invoking onChange. Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring dir (not recursive). onChange is called with
	// the absolute path of each changed file once writes have settled. The
	// callback may be invoked from any goroutine. Returns an error if the
	// directory doesn't exist or permissions are insufficient.
	Watch(dir string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
