package async

// noCopy marks types that own a persistent record and must not be
// copied after first use, such as Task, Group and Pipe. go vet's
// copylocks check reports copies because it implements sync.Locker.
type noCopy struct{}

// Lock is a no-op used by the copylocks check.
func (*noCopy) Lock() {}

// Unlock is a no-op used by the copylocks check.
func (*noCopy) Unlock() {}
