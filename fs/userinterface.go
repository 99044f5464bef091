package fs

// Filesystem is the file API the shell drives. A *Device runs each
// call under a blocking acquire; a *Guard runs it under a lock the
// caller already holds.
type Filesystem interface {
	Format(total uint32) error
	CreateFile(name string) error
	WriteFile(name string, data []byte) error
	ReadFile(name string) ([]byte, error)
	DeleteFile(name string) error
	ListFiles() ([]string, error)
	Stat() (Stat, error)
}

var (
	_ Filesystem = (*Device)(nil)
	_ Filesystem = (*Guard)(nil)
)
